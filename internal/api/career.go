package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"CareerNav/internal/backend"
	"CareerNav/internal/career"
)

// History lists past résumé analyses, newest first.
func (c *Client) History(ctx context.Context) ([]career.HistoryEntry, error) {
	var resp []backend.HistoryEntry
	cl := call{name: "career.history", method: http.MethodGet, path: "/career/history", auth: true}
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return backend.ToHistory(resp), nil
}

// AnalysisDetail fetches one stored analysis.
func (c *Client) AnalysisDetail(ctx context.Context, id string) (career.Analysis, error) {
	if id == "" {
		return career.Analysis{}, fmt.Errorf("analysis id cannot be empty")
	}
	var resp backend.AnalysisDetail
	cl := call{name: "career.analysis", method: http.MethodGet, path: "/career/analysis/" + url.PathEscape(id), auth: true}
	if err := c.do(ctx, cl, &resp); err != nil {
		return career.Analysis{}, err
	}
	return backend.ToAnalysis(id, &resp)
}

// Analyze uploads a résumé file for analysis.
func (c *Client) Analyze(ctx context.Context, path string) (career.Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return career.Analysis{}, fmt.Errorf("failed to open resume: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return career.Analysis{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return career.Analysis{}, fmt.Errorf("failed to read resume: %w", err)
	}
	if err := w.Close(); err != nil {
		return career.Analysis{}, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var resp backend.AnalyzeResponse
	err = c.do(ctx, call{
		name:        "career.analyze",
		method:      http.MethodPost,
		path:        "/career/analyze",
		auth:        true,
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
	}, &resp)
	if err != nil {
		return career.Analysis{}, err
	}
	return backend.ToAnalysis(string(resp.ID), resp.Data)
}
