package api

import (
	"net/http"

	projectservice "github.com/thenoetrevino/tracker/internal/services/project"
	"github.com/thenoetrevino/tracker/internal/workflow"
)

type createProjectBody struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	InitialState  string   `json:"initialState"`
	AllowedLabels []string `json:"allowedLabels"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) error {
	page, err := s.page(r)
	if err != nil {
		return err
	}
	projects, total, err := s.app.ProjectService.ListProjects(r.Context(), page)
	if err != nil {
		return err
	}
	writeEntity(w, http.StatusOK, projectCollectionEntity(projects, page, total))
	return nil
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) error {
	detail, err := s.app.ProjectService.GetProject(r.Context(), r.PathValue("project"))
	if err != nil {
		return err
	}
	writeEntity(w, http.StatusOK, projectEntity(detail))
	return nil
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request, user string) error {
	var body createProjectBody
	if err := decodeJSON(w, r, &body); err != nil {
		return err
	}
	detail, err := s.app.ProjectService.CreateProject(r.Context(), projectservice.CreateProjectRequest{
		Owner:         user,
		Name:          body.Name,
		Description:   body.Description,
		InitialState:  body.InitialState,
		AllowedLabels: body.AllowedLabels,
	})
	if err != nil {
		return err
	}
	created(w, projectPath(detail.Name), projectEntity(detail))
	return nil
}

func (s *Server) patchProject(w http.ResponseWriter, r *http.Request, user string) error {
	raw, err := decodePatch(w, r)
	if err != nil {
		return err
	}
	ops, err := workflow.DecodeProjectOps(raw)
	if err != nil {
		return err
	}
	if err := s.app.ProjectService.PatchProject(r.Context(), r.PathValue("project"), user, ops); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request, user string) error {
	if err := s.app.ProjectService.DeleteProject(r.Context(), r.PathValue("project"), user); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
