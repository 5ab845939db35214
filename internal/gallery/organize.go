package gallery

import "log/slog"

// Organize returns the display order: every record resolving to video first,
// then every shorts record, each bucket keeping its input order.
func Organize(records []Record) []Record {
	videos := make([]Record, 0, len(records))
	var shorts []Record
	for _, r := range records {
		if ResolveType(string(r.Type)) == TypeShorts {
			shorts = append(shorts, r)
			continue
		}
		videos = append(videos, r)
	}

	slog.Debug("organized gallery records",
		"total", len(records),
		"regular", len(videos),
		"shorts", len(shorts),
	)

	return append(videos, shorts...)
}
