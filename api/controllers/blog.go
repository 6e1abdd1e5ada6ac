package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rahulvarma/shopsphere-backend/api/responses"
	blogsvc "github.com/rahulvarma/shopsphere-backend/internal/blog"
	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	"github.com/rahulvarma/shopsphere-backend/pkg/logger"
)

type blogPostResponse struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body,omitempty"`
	Author      string     `json:"author"`
	CoverImage  *string    `json:"cover_image,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func newBlogPostResponse(post *models.BlogPost, includeBody bool) blogPostResponse {
	resp := blogPostResponse{
		Slug:        post.Slug,
		Title:       post.Title,
		Excerpt:     post.Excerpt,
		Author:      post.Author,
		CoverImage:  post.CoverImage,
		PublishedAt: post.PublishedAt,
	}
	if includeBody {
		resp.Body = post.Body
	}
	return resp
}

// BlogList returns published posts, newest first.
func BlogList(svc blogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

		posts, total, err := svc.List(r.Context(), page, perPage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]blogPostResponse, 0, len(posts))
		for i := range posts {
			out = append(out, newBlogPostResponse(&posts[i], false))
		}
		responses.WriteSuccess(w, pagedResponse{Items: out, Total: total})
	}
}

// BlogDetail returns one published post by slug.
func BlogDetail(svc blogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBlogPostResponse(post, true))
	}
}
