package api

import (
	"net/http"

	"github.com/okian/rankmerge/pkg/logger"
)

type splitRequest struct {
	Path string `json:"path" validate:"required"`
}

type splitResponse struct {
	OutputDir string   `json:"output_dir"`
	Files     []string `json:"files"`
	Chunks    []int    `json:"chunks"`
}

// SplitHandler handles POST /split.
type SplitHandler struct {
	deps   Pipelines
	paths  pathResolver
	logger logger.Logger
}

// HandleSplit splits the file named in the request body.
func (h *SplitHandler) HandleSplit(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}
	var req splitRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	path, err := h.paths.resolve(req.Path)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.deps.Split(r.Context(), path)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, splitResponse{OutputDir: res.OutputDir, Files: res.Files, Chunks: res.Chunks})
}

func (h *SplitHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	h.logger.Warn(r.Context(), "split request failed", logger.Int("status", status), logger.Error(err))
	writeError(w, status, code, err)
}

type rankingsRequest struct {
	PrimaryPath   string `json:"primary_path" validate:"required"`
	SecondaryPath string `json:"secondary_path" validate:"required"`
}

type pageResponse struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	File  string `json:"file"`
}

type rankingsResponse struct {
	OutputDir string         `json:"output_dir"`
	FullFile  string         `json:"full_file"`
	Entries   int            `json:"entries"`
	Pages     []pageResponse `json:"pages"`
}

// RankingsHandler handles POST /rankings.
type RankingsHandler struct {
	deps   Pipelines
	paths  pathResolver
	logger logger.Logger
}

// HandleRankings merges the two sources named in the request body.
func (h *RankingsHandler) HandleRankings(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}
	var req rankingsRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	primary, err := h.paths.resolve(req.PrimaryPath)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	secondary, err := h.paths.resolve(req.SecondaryPath)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.deps.Rank(r.Context(), primary, secondary)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	pages := make([]pageResponse, len(res.Pages))
	for i, p := range res.Pages {
		pages[i] = pageResponse{Start: p.Start, End: p.End}
		if i < len(res.PageFiles) {
			pages[i].File = res.PageFiles[i]
		}
	}
	writeJSON(w, http.StatusOK, rankingsResponse{
		OutputDir: res.OutputDir,
		FullFile:  res.FullFile,
		Entries:   len(res.Entries),
		Pages:     pages,
	})
}

func (h *RankingsHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	h.logger.Warn(r.Context(), "rankings request failed", logger.Int("status", status), logger.Error(err))
	writeError(w, status, code, err)
}
