package cli

import "fmt"

type notInListError struct {
	slug string
}

func (e notInListError) Error() string {
	return fmt.Sprintf("not in list: %s", e.slug)
}

func errNotInList(slug string) error {
	return notInListError{slug: slug}
}

type unsupportedFormatError struct {
	format string
}

func (e unsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q (want json or yaml)", e.format)
}

func errUnsupportedFormat(format string) error {
	return unsupportedFormatError{format: format}
}
