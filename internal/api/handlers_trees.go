package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgallion1/tref/internal/forest"
	"github.com/go-chi/chi/v5"
)

// nodeJSON is one node of a walk response.
type nodeJSON struct {
	Position int    `json:"position"`
	Depth    int    `json:"depth"`
	Content  string `json:"content"`
	Parent   *int   `json:"parent,omitempty"`
}

func (s *Server) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	var req struct {
		ID   string `json:"id"`
		Root string `json:"root"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	err = doc.Write(func(f *forest.Forest[string]) error {
		t, err := f.NewTree(req.ID)
		if err != nil {
			return err
		}
		if req.Root == "" {
			return nil
		}
		if _, err := t.SetRoot(req.Root); err != nil {
			// Leave the forest as it was.
			_ = f.RemoveTree(req.ID)
			return err
		}
		return nil
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		jsonError(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"tree": req.ID})
}

func (s *Server) handleWalk(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	treeID := chi.URLParam(r, "treeID")

	order := forest.OrderPreOrder
	if v := r.URL.Query().Get("order"); v != "" {
		if order, err = forest.ParseOrder(v); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	nodes := []nodeJSON{}
	err = doc.Read(func(f *forest.Forest[string]) error {
		t, ok := f.Tree(treeID)
		if !ok {
			return fmt.Errorf("%s: %w", treeID, forest.ErrTreeNotFound)
		}
		seq, err := t.Walk(order)
		if err != nil {
			return err
		}
		for pos, n := range seq {
			nj := nodeJSON{Position: pos, Depth: n.Depth, Content: n.Content}
			if parent, ok := n.Parent(); ok {
				nj.Parent = &parent
			}
			nodes = append(nodes, nj)
		}
		return nil
	})
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tree":  treeID,
		"order": order,
		"nodes": nodes,
	})
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	treeID := chi.URLParam(r, "treeID")
	path := r.URL.Query()["path"]
	if len(path) == 0 {
		jsonError(w, "at least one path parameter is required", http.StatusBadRequest)
		return
	}

	var pos int
	err = doc.Read(func(f *forest.Forest[string]) error {
		var err error
		pos, err = f.Find(treeID, path...)
		return err
	})
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"position": pos, "path": path})
}

func (s *Server) handleLinkNode(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	treeID := chi.URLParam(r, "treeID")
	var req struct {
		Parent  *int   `json:"parent"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	var pos int
	err = doc.Write(func(f *forest.Forest[string]) error {
		var err error
		if req.Parent == nil {
			pos, err = f.SetRoot(treeID, req.Content)
		} else {
			pos, err = f.Link(treeID, *req.Parent, req.Content)
		}
		return err
	})
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"position": pos})
}

func (s *Server) handleUnlinkNode(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	pos, err := strconv.Atoi(chi.URLParam(r, "pos"))
	if err != nil {
		jsonError(w, "invalid position", http.StatusBadRequest)
		return
	}

	err = doc.Write(func(f *forest.Forest[string]) error {
		return f.Unlink(chi.URLParam(r, "treeID"), pos)
	})
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
