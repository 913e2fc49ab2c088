// Package ui serves a browser playground for the tokenizer and the
// completion engine.
package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"

	"github.com/tliron/commonlog"

	"github.com/torland/botls/complete"
	"github.com/torland/botls/dialect"
	"github.com/torland/botls/format"
	"github.com/torland/botls/labels"
	"github.com/torland/botls/lexer"
)

//go:embed static templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("botls.ui")

// maxBody bounds request bodies; playground buffers are small.
const maxBody = 1 << 20

type Server struct {
	staticFS   fs.FS
	templateFS fs.FS
	mux        *http.ServeMux
}

func NewServer() (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	if _, err := template.ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		staticFS:   staticFS,
		templateFS: templateFS,
		mux:        http.NewServeMux(),
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("GET /dialects", s.handleDialects)
	s.mux.HandleFunc("POST /tokenize", s.handleTokenize)
	s.mux.HandleFunc("POST /complete", s.handleComplete)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// render re-parses the templates on every request so edits under
// ui/templates show up without a restart.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Dialects []string
	}{
		Dialects: dialect.Names(),
	}
	s.render(w, "index.html", data)
}

type dialectInfo struct {
	Name          string     `json:"name"`
	CommentPrefix string     `json:"commentPrefix"`
	FoldCase      bool       `json:"foldCase"`
	Extensions    []string   `json:"extensions"`
	Commands      []string   `json:"commands"`
	Roles         []roleInfo `json:"roles"`
}

type roleInfo struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Values   []string `json:"values,omitempty"`
	Syntax   string   `json:"syntax,omitempty"`
}

func (s *Server) handleDialects(w http.ResponseWriter, r *http.Request) {
	var infos []dialectInfo
	for _, name := range dialect.Names() {
		d, _ := dialect.Lookup(name)
		info := dialectInfo{
			Name:          d.Name,
			CommentPrefix: d.CommentPrefix,
			FoldCase:      d.FoldCase,
			Extensions:    d.Extensions,
		}
		for _, c := range d.Commands {
			info.Commands = append(info.Commands, c.Signature())
		}
		for _, role := range d.Roles {
			ri := roleInfo{Name: role.RoleName(), Category: role.RoleCategory().String()}
			switch role := role.(type) {
			case dialect.Enumerated:
				ri.Values = role.Values
			case dialect.Validated:
				ri.Syntax = role.Syntax
			}
			info.Roles = append(info.Roles, ri)
		}
		infos = append(infos, info)
	}
	writeJSON(w, infos)
}

type tokenizeRequest struct {
	Dialect string `json:"dialect"`
	Text    string `json:"text"`
}

type tokenizeResponse struct {
	Dialect string             `json:"dialect"`
	Tokens  []format.JSONToken `json:"tokens"`
	Labels  []string           `json:"labels"`
}

func (s *Server) handleTokenize(w http.ResponseWriter, r *http.Request) {
	var req tokenizeRequest
	d, ok := decode(w, r, &req, &req.Dialect)
	if !ok {
		return
	}
	names := labels.Build(d, req.Text).Names()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, tokenizeResponse{
		Dialect: d.Name,
		Tokens:  format.JSONTokens(lexer.Tokenize(d, req.Text)),
		Labels:  names,
	})
}

type completeRequest struct {
	Dialect string `json:"dialect"`
	Text    string `json:"text"`
	Offset  int    `json:"offset"`
}

type completeResponse struct {
	Prefix     string          `json:"prefix"`
	Start      int             `json:"start"`
	End        int             `json:"end"`
	Candidates []candidateJSON `json:"candidates"`
}

type candidateJSON struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	d, ok := decode(w, r, &req, &req.Dialect)
	if !ok {
		return
	}
	res := complete.Complete(d, req.Text, req.Offset)
	resp := completeResponse{
		Prefix:     res.Prefix,
		Start:      res.Replace.Start.Offset,
		End:        res.Replace.End.Offset,
		Candidates: []candidateJSON{},
	}
	for _, c := range res.Candidates {
		resp.Candidates = append(resp.Candidates, candidateJSON{
			Text:   c.Text,
			Source: c.Source.String(),
			Detail: c.Detail,
		})
	}
	writeJSON(w, resp)
}

// decode reads a JSON request body into v and resolves the dialect it
// names. An empty name selects the first builtin dialect.
func decode(w http.ResponseWriter, r *http.Request, v any, name *string) (*dialect.Dialect, bool) {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if *name == "" {
		*name = dialect.Names()[0]
	}
	d, err := dialect.Lookup(*name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return d, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("write response: %s", err)
	}
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// overlayFS serves files from primaryPath on disk when present and falls
// back to the embedded copy.
type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	for _, fsys := range []fs.FS{o.secondary, o.primary} {
		if rd, ok := fsys.(fs.ReadDirFS); ok {
			if list, err := rd.ReadDir(name); err == nil {
				for _, e := range list {
					entries[e.Name()] = e
				}
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}
