package gallery

import "fmt"

func EmbedURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s?autoplay=1&rel=0&modestbranding=1", id)
}

func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
