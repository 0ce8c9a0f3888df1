package api

import (
	"net/http"

	issueservice "github.com/thenoetrevino/tracker/internal/services/issue"
	"github.com/thenoetrevino/tracker/internal/workflow"
)

type createIssueBody struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Labels      []string `json:"labels"`
}

func (s *Server) listIssues(w http.ResponseWriter, r *http.Request) error {
	page, err := s.page(r)
	if err != nil {
		return err
	}
	project := r.PathValue("project")
	issues, total, err := s.app.IssueService.ListIssues(r.Context(), project, page)
	if err != nil {
		return err
	}
	writeEntity(w, http.StatusOK, issueCollectionEntity(project, issues, page, total))
	return nil
}

func (s *Server) getIssue(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "issue")
	if err != nil {
		return err
	}
	issue, err := s.app.IssueService.GetIssue(r.Context(), r.PathValue("project"), id)
	if err != nil {
		return err
	}
	writeEntity(w, http.StatusOK, issueEntity(issue))
	return nil
}

func (s *Server) createIssue(w http.ResponseWriter, r *http.Request, user string) error {
	var body createIssueBody
	if err := decodeJSON(w, r, &body); err != nil {
		return err
	}
	issue, err := s.app.IssueService.CreateIssue(r.Context(), issueservice.CreateIssueRequest{
		Project:     r.PathValue("project"),
		Name:        body.Name,
		Description: body.Description,
		Labels:      body.Labels,
		Author:      user,
	})
	if err != nil {
		return err
	}
	created(w, issuePath(issue.ProjectName, issue.ID), issueEntity(issue))
	return nil
}

func (s *Server) patchIssue(w http.ResponseWriter, r *http.Request, user string) error {
	id, err := pathID(r, "issue")
	if err != nil {
		return err
	}
	raw, err := decodePatch(w, r)
	if err != nil {
		return err
	}
	ops, err := workflow.DecodeIssueOps(raw)
	if err != nil {
		return err
	}
	if err := s.app.IssueService.PatchIssue(r.Context(), r.PathValue("project"), id, user, ops); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) deleteIssue(w http.ResponseWriter, r *http.Request, user string) error {
	id, err := pathID(r, "issue")
	if err != nil {
		return err
	}
	if err := s.app.IssueService.DeleteIssue(r.Context(), r.PathValue("project"), id, user); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
