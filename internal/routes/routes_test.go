package routes

import "testing"

func TestBlog(t *testing.T) {
	if got := Blog("abc"); got != "/api/blogs/abc" {
		t.Errorf("Blog() = %s", got)
	}
}
