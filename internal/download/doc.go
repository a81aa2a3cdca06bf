// Package download provides the download orchestration logic for
// fetching episodes and batches linked from the catalog.
//
// # Manager
//
// The Manager coordinates the entire download process:
//
//  1. Resolve an episode or batch slug to a direct link
//  2. Save the anime poster (optional)
//  3. Download files concurrently, one attempt each
//  4. Generate a playlist of the downloaded files (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, client, log, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if _, err := manager.AddEpisode(ctx, "frieren-episode-12", "720p"); err != nil {
//	    log.Fatal(err)
//	}
//
//	err := manager.StartDownloads(ctx)
//
// # Progress Tracking
//
// Progress is reported through ProgressEvent callbacks and GetProgress:
//
//	received, done, total := manager.GetProgress()
//	fmt.Printf("%d/%d files, %d bytes\n", done, total, received)
//
// Files that already exist are skipped. Downloads are streamed to a
// ".part" file first, so an existing file is always complete.
package download
