package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/fontsmith/pkg/assemble"
	"github.com/matzehuels/fontsmith/pkg/codes"
	"github.com/matzehuels/fontsmith/pkg/config"
	"github.com/matzehuels/fontsmith/pkg/encoder"
	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/font"
	"github.com/matzehuels/fontsmith/pkg/importer"
)

// GlyphView is the JSON form of a glyph.
type GlyphView struct {
	UID          string `json:"uid"`
	Font         string `json:"font"`
	Name         string `json:"name"`
	Code         rune   `json:"code"`
	Char         string `json:"char"`
	OriginalName string `json:"original_name"`
	OriginalCode rune   `json:"original_code"`
	Selected     bool   `json:"selected"`
	Width        int    `json:"width"`
	Outline      string `json:"outline,omitempty"`
}

// FontView is the JSON form of a font.
type FontView struct {
	ID       string `json:"id"`
	Fullname string `json:"fullname,omitempty"`
	Custom   bool   `json:"custom"`
	Glyphs   int    `json:"glyphs"`
	Selected int    `json:"selected"`
}

func glyphView(g *font.Glyph, outline bool) GlyphView {
	v := GlyphView{
		UID:          g.UID(),
		Font:         g.Font().ID(),
		Name:         g.Name(),
		Code:         g.Code(),
		Char:         fmt.Sprintf("U+%04X", g.Code()),
		OriginalName: g.OriginalName(),
		OriginalCode: g.OriginalCode(),
		Selected:     g.Selected(),
		Width:        g.Width(),
	}
	if outline {
		v.Outline = g.Outline()
	}
	return v
}

func (s *Server) coll() *font.Collection { return s.ws.Collection }

func (s *Server) glyph(r *http.Request) (*font.Glyph, error) {
	uid := chi.URLParam(r, "uid")
	g, ok := s.coll().Glyph(uid)
	if !ok {
		return nil, errors.New(errors.ErrCodeGlyphNotFound, "no glyph with uid %s", uid)
	}
	return g, nil
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	cfg := config.Serialize(s.coll(), s.ws.Params())
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cfg, err := s.runner.Save(r.Context(), s.ws)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"glyphs": len(cfg.Glyphs)})
}

type buildResponse struct {
	Files  []string          `json:"files"`
	Failed map[string]string `json:"failed,omitempty"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	st := s.ws.Settings
	s.mu.Lock()
	artifacts, failures := s.runner.Export(r.Context(), s.coll(), s.ws.Params(), st.Build.Formats, st.OutputDir(s.ws.Dir), false)
	s.mu.Unlock()

	resp := buildResponse{Files: []string{}}
	for _, a := range artifacts {
		resp.Files = append(resp.Files, a.Path)
	}
	if len(failures) > 0 {
		resp.Failed = make(map[string]string, len(failures))
		for _, f := range failures {
			resp.Failed[f.Font] = errors.UserMessage(f.Err)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFonts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []FontView{}
	for _, f := range s.coll().Fonts() {
		v := FontView{ID: f.ID(), Fullname: f.Fullname(), Custom: f.Custom(), Glyphs: f.Len()}
		for _, g := range f.Glyphs() {
			if g.Selected() {
				v.Selected++
			}
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleFontFile assembles a font on the fly, e.g. GET /api/fonts/icons/svg.
func (s *Server) handleFontFile(w http.ResponseWriter, r *http.Request) {
	id, format := chi.URLParam(r, "id"), chi.URLParam(r, "format")
	enc, err := encoder.Get(format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	f, ok := s.coll().Font(id)
	if !ok {
		s.mu.Unlock()
		s.writeError(w, errors.New(errors.ErrCodeFontNotFound, "no font %q", id))
		return
	}
	p := s.ws.Params()
	if !f.Custom() {
		p.Fullname = ""
	}
	def, err := assemble.Assemble(f, p)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if def == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	contentType := "application/json"
	if format == "svg" {
		contentType = "image/svg+xml"
	}
	w.Header().Set("Content-Type", contentType)
	if err := enc.Encode(w, def); err != nil {
		s.logger.Error("encode font", "font", id, "format", format, "err", err)
	}
}

// handleGlyphs lists glyphs. Query parameters: font filters by font id,
// selected=true lists the selection in selection order.
func (s *Server) handleGlyphs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	outline := q.Get("outline") == "true"

	s.mu.Lock()
	defer s.mu.Unlock()

	var glyphs []*font.Glyph
	switch {
	case q.Get("selected") == "true":
		glyphs = s.coll().Selected()
	case q.Get("font") != "":
		f, ok := s.coll().Font(q.Get("font"))
		if !ok {
			s.writeError(w, errors.New(errors.ErrCodeFontNotFound, "no font %q", q.Get("font")))
			return
		}
		glyphs = f.Glyphs()
	default:
		for _, f := range s.coll().Fonts() {
			glyphs = append(glyphs, f.Glyphs()...)
		}
	}

	out := make([]GlyphView, 0, len(glyphs))
	for _, g := range glyphs {
		out = append(out, glyphView(g, outline))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGlyph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.glyph(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, glyphView(g, true))
}

func (s *Server) handleSelect(selected bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		g, err := s.glyph(r)
		if err == nil {
			err = s.coll().ToggleSelect(g, selected)
		}
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, glyphView(g, false))
	}
}

type renameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.glyph(r)
	if err == nil {
		err = s.coll().SetName(g, req.Name)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, glyphView(g, false))
}

// codeRequest sets a code explicitly or reallocates it with a policy.
type codeRequest struct {
	Code   *rune  `json:"code,omitempty"`
	Policy string `json:"policy,omitempty"`
}

func (s *Server) handleCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if (req.Code == nil) == (req.Policy == "") {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "exactly one of code and policy is required"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.glyph(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if req.Code != nil {
		err = s.coll().SetCode(g, *req.Code)
	} else {
		var p codes.Policy
		if p, err = codes.ParsePolicy(req.Policy); err == nil {
			err = s.coll().Allocate(g, p)
		}
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, glyphView(g, false))
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.glyph(r)
	if err == nil {
		err = s.coll().RemoveGlyph(g.Font(), g.UID())
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type uploadResponse struct {
	importer.Result
	Glyphs []GlyphView `json:"glyphs"`
}

// handleUpload imports the request body as an SVG source. The file query
// parameter names the source; image glyphs take their name from it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "file query parameter is required"))
		return
	}
	file = filepath.Base(file)
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidSource, err, "read upload"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.coll().Custom().Glyphs())
	res, err := s.ws.Importer.Import(r.Context(), file, data)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := uploadResponse{Result: res, Glyphs: []GlyphView{}}
	for _, g := range s.coll().Custom().Glyphs()[before:] {
		resp.Glyphs = append(resp.Glyphs, glyphView(g, false))
	}
	writeJSON(w, http.StatusCreated, resp)
}
