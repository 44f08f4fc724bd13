// Package segmentd embeds the segmentd content selector in a Go program.
//
// A Client picks the entries to show a viewer: entries tagged with the
// viewer's interests first, the group's recent global entries otherwise.
//
//	client, _ := segmentd.New(ctx,
//	    segmentd.WithRedis("localhost:6379", ""),
//	    segmentd.WithPostgresDirectory("postgres://localhost/portal"),
//	)
//	defer client.Close()
//
//	sel, _ := client.Select(ctx, 20121, segmentd.ForViewer(42))
//	for _, e := range sel.Entries {
//	    fmt.Println(e.ClassPK, e.Title)
//	}
package segmentd
