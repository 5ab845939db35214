package gallery

var fallbackRecords = []Record{
	{ID: "aT3UkaEc-FA", Type: TypeVideo, Title: "Ancient Art Animation 1", URL: "https://youtu.be/aT3UkaEc-FA"},
	{ID: "H2DdT9jxkq4", Type: TypeVideo, Title: "Ancient Art Animation 2", URL: "https://youtu.be/H2DdT9jxkq4"},
	{ID: "vfVGUEnBVmA", Type: TypeVideo, Title: "Ancient Art Animation 3", URL: "https://youtu.be/vfVGUEnBVmA"},
	{ID: "oDzpjwDEGI0", Type: TypeVideo, Title: "Ancient Art Animation 4", URL: "https://youtu.be/oDzpjwDEGI0"},
	{ID: "u7EmRd0GLhQ", Type: TypeShorts, Title: "Ancient Art Short 1", URL: "https://youtube.com/shorts/u7EmRd0GLhQ"},
	{ID: "u-4QAEbLzDc", Type: TypeShorts, Title: "Ancient Art Short 2", URL: "https://youtube.com/shorts/u-4QAEbLzDc"},
	{ID: "gnim33uJxzo", Type: TypeShorts, Title: "Ancient Art Short 3", URL: "https://youtube.com/shorts/gnim33uJxzo"},
	{ID: "hDqcPVimlRU", Type: TypeShorts, Title: "Ancient Art Short 4", URL: "https://youtube.com/shorts/hDqcPVimlRU"},
	{ID: "mm410EAjU9k", Type: TypeShorts, Title: "Ancient Art Short 5", URL: "https://youtube.com/shorts/mm410EAjU9k"},
	{ID: "TmGP4hk5PXs", Type: TypeShorts, Title: "Ancient Art Short 6", URL: "https://youtube.com/shorts/TmGP4hk5PXs"},
	{ID: "NhfekOfB2KE", Type: TypeShorts, Title: "Ancient Art Short 7", URL: "https://youtube.com/shorts/NhfekOfB2KE"},
	{ID: "5GB-vBxK8B8", Type: TypeShorts, Title: "Ancient Art Short 8", URL: "https://youtube.com/shorts/5GB-vBxK8B8"},
	{ID: "Fm01PhdwcJ0", Type: TypeShorts, Title: "Ancient Art Short 9", URL: "https://youtube.com/shorts/Fm01PhdwcJ0"},
	{ID: "g9WxDb2LtkQ", Type: TypeVideo, Title: "Ancient Art Animation 5", URL: "https://youtu.be/g9WxDb2LtkQ"},
	{ID: "B1SXLTCgQZw", Type: TypeShorts, Title: "Ancient Art Short 10", URL: "https://youtube.com/shorts/B1SXLTCgQZw"},
	{ID: "eJV6linf5rM", Type: TypeShorts, Title: "Ancient Art Short 11", URL: "https://youtube.com/shorts/eJV6linf5rM"},
	{ID: "vtOYyp8PiMQ", Type: TypeShorts, Title: "Ancient Art Short 12", URL: "https://youtube.com/shorts/vtOYyp8PiMQ"},
	{ID: "q7ixw5acIRc", Type: TypeShorts, Title: "Ancient Art Short 13", URL: "https://youtube.com/shorts/q7ixw5acIRc"},
}

// FallbackRecords returns a copy of the built-in list, in its fixed order.
func FallbackRecords() []Record {
	out := make([]Record, len(fallbackRecords))
	copy(out, fallbackRecords)
	return out
}

func IsFallbackID(id string) bool {
	for _, r := range fallbackRecords {
		if r.ID == id {
			return true
		}
	}
	return false
}
