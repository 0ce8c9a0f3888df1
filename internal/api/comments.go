package api

import (
	"net/http"

	commentservice "github.com/thenoetrevino/tracker/internal/services/comment"
)

type addCommentBody struct {
	Text string `json:"text"`
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) error {
	issueID, err := pathID(r, "issue")
	if err != nil {
		return err
	}
	page, err := s.page(r)
	if err != nil {
		return err
	}
	project := r.PathValue("project")
	comments, total, err := s.app.CommentService.ListComments(r.Context(), project, issueID, page)
	if err != nil {
		return err
	}
	writeEntity(w, http.StatusOK, commentCollectionEntity(project, issueID, comments, page, total))
	return nil
}

func (s *Server) getComment(w http.ResponseWriter, r *http.Request) error {
	issueID, err := pathID(r, "issue")
	if err != nil {
		return err
	}
	id, err := pathID(r, "comment")
	if err != nil {
		return err
	}
	project := r.PathValue("project")
	comment, err := s.app.CommentService.GetComment(r.Context(), project, issueID, id)
	if err != nil {
		return err
	}
	writeEntity(w, http.StatusOK, commentEntity(project, comment))
	return nil
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request, user string) error {
	issueID, err := pathID(r, "issue")
	if err != nil {
		return err
	}
	var body addCommentBody
	if err := decodeJSON(w, r, &body); err != nil {
		return err
	}
	project := r.PathValue("project")
	comment, err := s.app.CommentService.AddComment(r.Context(), commentservice.AddCommentRequest{
		Project: project,
		IssueID: issueID,
		Author:  user,
		Text:    body.Text,
	})
	if err != nil {
		return err
	}
	created(w, commentPath(project, issueID, comment.ID), commentEntity(project, comment))
	return nil
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request, user string) error {
	issueID, err := pathID(r, "issue")
	if err != nil {
		return err
	}
	id, err := pathID(r, "comment")
	if err != nil {
		return err
	}
	if err := s.app.CommentService.DeleteComment(r.Context(), r.PathValue("project"), issueID, id, user); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
