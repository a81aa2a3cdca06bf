// Package media provides file system and image utilities for downloads.
//
// # File Operations
//
//	// Write a playlist without ever exposing a half-written file
//	err := media.WriteFileAtomic("/anime/Frieren/Frieren.m3u", content)
//
//	// Skip files that were already downloaded
//	if media.Exists(file.Path) { ... }
//
// # Image Processing
//
// The ImageService handles posters:
//
//	svc := media.NewImageService()
//
//	// Resize image to fit within 1000x1000
//	resized, _ := svc.ResizeImage(ctx, imageData, 1000, 1000)
//
//	// Convert to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package media
