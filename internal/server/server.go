package server

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/treesym/treesym/pkg/errors"
	"github.com/treesym/treesym/pkg/mapgen"
	"github.com/treesym/treesym/pkg/perm"
	"github.com/treesym/treesym/pkg/tree"
)

// Server serves the mapping API. The zero value is not usable; construct
// with NewServer.
type Server struct {
	runner *mapgen.Runner
	logger *log.Logger
}

// NewServer creates a server around a pipeline runner. A nil logger
// discards output.
func NewServer(runner *mapgen.Runner, logger *log.Logger) *Server {
	if runner == nil {
		runner = mapgen.NewRunner(nil, nil, nil)
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{runner: runner, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.observe)
	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/canonical", s.handleCanonical)
		r.Post("/equivalent", s.handleEquivalent)
		r.Get("/count", s.handleCount)
		r.Post("/generate", s.handleGenerate)
	})
	return r
}

type canonicalRequest struct {
	Arities     []int  `json:"arities"`
	Permutation string `json:"permutation"`
}

type canonicalResponse struct {
	Canonical string `json:"canonical"`
	Changed   bool   `json:"changed"`
}

func (s *Server) handleCanonical(w http.ResponseWriter, r *http.Request) {
	var req canonicalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}
	tp, err := treePermutation(req.Arities, req.Permutation)
	if err != nil {
		s.writeError(w, err)
		return
	}
	canonical := tp.Canonical()
	s.writeJSON(w, http.StatusOK, canonicalResponse{
		Canonical: canonical.String(),
		Changed:   !canonical.Equal(tp),
	})
}

type equivalentRequest struct {
	Arities     []int  `json:"arities"`
	Permutation string `json:"permutation"`
	Seed        int64  `json:"seed,omitempty"`
}

type equivalentResponse struct {
	Equivalent string `json:"equivalent"`
	Canonical  string `json:"canonical"`
}

func (s *Server) handleEquivalent(w http.ResponseWriter, r *http.Request) {
	var req equivalentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}
	tp, err := treePermutation(req.Arities, req.Permutation)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var rng *rand.Rand
	if req.Seed != 0 {
		rng = rand.New(rand.NewSource(req.Seed))
	}
	s.writeJSON(w, http.StatusOK, equivalentResponse{
		Equivalent: tp.ShuffleNodes(rng).String(),
		Canonical:  tp.Canonical().String(),
	})
}

type countResponse struct {
	Arities []int  `json:"arities"`
	Leaves  int    `json:"leaves"`
	Classes string `json:"classes"`
	Total   string `json:"total"`
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	arities, err := parseArities(r.URL.Query().Get("arities"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	root := tree.NewTleaf(arities...)
	classes, err := perm.Classes(root)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, countResponse{
		Arities: arities,
		Leaves:  root.NLeaves(),
		Classes: classes.String(),
		Total:   perm.Factorial(root.NLeaves()).String(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var opts mapgen.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// treePermutation builds a balanced tree from arities and attaches the
// parsed permutation.
func treePermutation(arities []int, permutation string) (*perm.TreePermutation, error) {
	for _, a := range arities {
		if a < 1 {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "arities must be positive, got %d", a)
		}
	}
	p, err := perm.Parse(permutation)
	if err != nil {
		return nil, err
	}
	return perm.FromPermutation(tree.NewTleaf(arities...), p)
}
