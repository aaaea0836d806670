package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/model"
)

// ReviewExport is the export envelope. Data holds the review slice for json
// and rendered text for every other format.
type ReviewExport struct {
	Format model.ExportFormat `json:"format"`
	Data   any                `json:"data"`
}

func (s *ReviewService) Export(ctx context.Context, format model.ExportFormat, reviewType string) (*ReviewExport, error) {
	if format == "" {
		format = model.ExportJSON
	}
	if !format.Valid() {
		return nil, apperrors.InvalidInput("format", "must be json, markdown, html or yaml")
	}

	filter, err := ParseReviewFilter(reviewType, "", "")
	if err != nil {
		return nil, err
	}
	reviews, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	switch format {
	case model.ExportMarkdown:
		return &ReviewExport{Format: format, Data: RenderReviewsMarkdown(reviews)}, nil
	case model.ExportHTML:
		return &ReviewExport{Format: format, Data: RenderReviewsHTML(reviews)}, nil
	case model.ExportYAML:
		out, err := yaml.Marshal(reviews)
		if err != nil {
			return nil, apperrors.Internal("Failed to export reviews").WithCause(err)
		}
		return &ReviewExport{Format: format, Data: string(out)}, nil
	default:
		return &ReviewExport{Format: format, Data: reviews}, nil
	}
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > MaxRating {
		rating = MaxRating
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", MaxRating-rating)
}

func creatorOrUnknown(r model.Review) string {
	if r.Creator == nil || *r.Creator == "" {
		return "Unknown"
	}
	return *r.Creator
}

func yearOrNA(r model.Review) string {
	if r.Year == nil {
		return "N/A"
	}
	return fmt.Sprint(*r.Year)
}

func RenderReviewsMarkdown(reviews []model.Review) string {
	var b strings.Builder
	b.WriteString("# My Reviews\n\n")
	for _, r := range reviews {
		fmt.Fprintf(&b, "## %s\n\n", r.Title)
		fmt.Fprintf(&b, "**%s** (%s)\n\n", creatorOrUnknown(r), yearOrNA(r))
		fmt.Fprintf(&b, "Rating: %s\n\n", stars(r.Rating))
		if r.Notes != nil && *r.Notes != "" {
			fmt.Fprintf(&b, "%s\n\n", *r.Notes)
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}

// RenderReviewsHTML produces a standalone page. Every user-supplied field is
// escaped.
func RenderReviewsHTML(reviews []model.Review) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>My Reviews</title>\n</head>\n<body>\n")
	b.WriteString("<h1>My Reviews</h1>\n")
	for _, r := range reviews {
		b.WriteString("<article class=\"review\">\n")
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(r.Title))
		fmt.Fprintf(&b, "<p><strong>%s</strong> (%s)</p>\n", html.EscapeString(creatorOrUnknown(r)), yearOrNA(r))
		fmt.Fprintf(&b, "<p class=\"rating\">%s</p>\n", stars(r.Rating))
		if r.Notes != nil && *r.Notes != "" {
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(*r.Notes))
		}
		b.WriteString("</article>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
