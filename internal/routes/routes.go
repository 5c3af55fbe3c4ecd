// Package routes defines HTTP route constants for the application.
package routes

const (
	APIBlogs     = "/api/blogs"
	APIBlogStats = "/api/blogs/stats"
	APIBlog      = "/api/blogs/{id}"
	APIBlogHTML  = "/api/blogs/{id}/html"
	APISaveDraft = "/api/blogs/save-draft"
	APIPublish   = "/api/blogs/publish"

	// SSE
	APIEvents = "/api/events"

	SyntaxTheme = "/api/syntax/{theme}"
	Health      = "/healthz"
)

// Blog returns the concrete path for one blog.
func Blog(id string) string {
	return APIBlogs + "/" + id
}
