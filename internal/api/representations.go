package api

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/thenoetrevino/tracker/internal/models"
)

const (
	jsonType      = "application/json"
	jsonPatchType = "application/json-patch+json"
)

func projectsPath() string {
	return "/projects"
}

func projectPath(project string) string {
	return "/projects/" + url.PathEscape(project)
}

func issuesPath(project string) string {
	return projectPath(project) + "/issues"
}

func issuePath(project string, id int) string {
	return fmt.Sprintf("%s/%d", issuesPath(project), id)
}

func commentsPath(project string, issueID int) string {
	return issuePath(project, issueID) + "/comments"
}

func commentPath(project string, issueID, id int) string {
	return fmt.Sprintf("%s/%d", commentsPath(project, issueID), id)
}

func pagePath(base string, page models.Page, number int) string {
	return fmt.Sprintf("%s?page=%d&size=%d", base, number, page.Size)
}

// ProjectProperties is the wire form of a project.
type ProjectProperties struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	InitialState     string   `json:"initialState"`
	ProjectOwner     string   `json:"projectOwner"`
	AllowedLabels    []string `json:"allowedLabels,omitempty"`
	AllowedStates    []string `json:"allowedStates,omitempty"`
	StateTransitions []string `json:"stateTransitions,omitempty"`
}

// IssueProperties is the wire form of an issue.
type IssueProperties struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	ProjectName  string     `json:"project_name"`
	Description  string     `json:"description"`
	CreationDate time.Time  `json:"creation_date"`
	CloseDate    *time.Time `json:"close_date"`
	FromUsername string     `json:"from_username"`
	StateName    string     `json:"state_name"`
	Labels       []string   `json:"labels"`
}

// CommentProperties is the wire form of a comment.
type CommentProperties struct {
	ID           int       `json:"id"`
	Date         time.Time `json:"date"`
	FromUsername string    `json:"from_username"`
	Text         string    `json:"text"`
	IssueID      int       `json:"issue_id"`
}

// CollectionProperties describes the page being returned.
type CollectionProperties struct {
	CurrentPage    int `json:"currentPage"`
	PageSize       int `json:"pageSize"`
	CollectionSize int `json:"collectionSize"`
}

func projectProperties(p *models.Project) ProjectProperties {
	return ProjectProperties{
		Name:         p.Name,
		Description:  p.Description,
		InitialState: p.InitialState,
		ProjectOwner: p.Owner,
	}
}

func projectDetailProperties(d *models.ProjectDetail) ProjectProperties {
	props := projectProperties(&d.Project)
	props.AllowedLabels = d.AllowedLabels
	props.AllowedStates = d.AllowedStates
	for _, t := range d.Transitions {
		props.StateTransitions = append(props.StateTransitions, t.String())
	}
	return props
}

func issueProperties(i *models.Issue) IssueProperties {
	labels := i.Labels
	if labels == nil {
		labels = []string{}
	}
	return IssueProperties{
		ID:           i.ID,
		Name:         i.Name,
		ProjectName:  i.ProjectName,
		Description:  i.Description,
		CreationDate: i.CreatedAt,
		CloseDate:    i.ClosedAt,
		FromUsername: i.Author,
		StateName:    i.State,
		Labels:       labels,
	}
}

func commentProperties(c *models.Comment) CommentProperties {
	return CommentProperties{
		ID:           c.ID,
		Date:         c.CreatedAt,
		FromUsername: c.Author,
		Text:         c.Text,
		IssueID:      c.IssueID,
	}
}

func projectEntity(d *models.ProjectDetail) Entity {
	self := projectPath(d.Name)
	return Entity{
		Class:      []string{"Project"},
		Properties: projectDetailProperties(d),
		Actions: []Action{
			{Name: "delete-project", Title: "Delete project", Method: http.MethodDelete, Href: self},
			{Name: "patch-project", Title: "Update project", Method: http.MethodPatch, Href: self, Type: jsonPatchType},
		},
		Links: []Link{
			link("self", self),
			link("Projects", projectsPath()),
			link("Issues", issuesPath(d.Name)),
		},
	}
}

func projectCollectionEntity(projects []*models.Project, page models.Page, total int) Entity {
	e := Entity{
		Class:      []string{"Project", "Collection"},
		Properties: CollectionProperties{CurrentPage: page.Number, PageSize: len(projects), CollectionSize: total},
		Actions: []Action{{
			Name:   "create-project",
			Title:  "Create project",
			Method: http.MethodPost,
			Href:   projectsPath(),
			Type:   jsonType,
			Fields: []Field{
				{Name: "name", Type: "text"},
				{Name: "description", Type: "text"},
				{Name: "initialState", Type: "text"},
				{Name: "allowedLabels", Type: "array"},
			},
		}},
		Links: collectionLinks(projectsPath(), page, total),
	}
	for _, p := range projects {
		e.Entities = append(e.Entities, SubEntity{
			Rel:        []string{"project"},
			Class:      []string{"Project"},
			Properties: projectProperties(p),
			Links:      []Link{link("self", projectPath(p.Name))},
		})
	}
	return e
}

func issueEntity(i *models.Issue) Entity {
	self := issuePath(i.ProjectName, i.ID)
	return Entity{
		Class:      []string{"Issue"},
		Properties: issueProperties(i),
		Actions: []Action{
			{Name: "delete-issue", Title: "Delete issue", Method: http.MethodDelete, Href: self},
			{Name: "patch-issue", Title: "Update issue", Method: http.MethodPatch, Href: self, Type: jsonPatchType},
		},
		Links: []Link{
			link("self", self),
			link("Project", projectPath(i.ProjectName)),
			link("Comments", commentsPath(i.ProjectName, i.ID)),
		},
	}
}

func issueCollectionEntity(project string, issues []*models.Issue, page models.Page, total int) Entity {
	base := issuesPath(project)
	e := Entity{
		Class:      []string{"Issue", "Collection"},
		Properties: CollectionProperties{CurrentPage: page.Number, PageSize: len(issues), CollectionSize: total},
		Actions: []Action{{
			Name:   "create-issue",
			Title:  "Create issue",
			Method: http.MethodPost,
			Href:   base,
			Type:   jsonType,
			Fields: []Field{
				{Name: "name", Type: "text"},
				{Name: "description", Type: "text"},
				{Name: "labels", Type: "array"},
			},
		}},
		Links: append(collectionLinks(base, page, total), link("Project", projectPath(project))),
	}
	for _, i := range issues {
		e.Entities = append(e.Entities, SubEntity{
			Rel:        []string{"issue"},
			Class:      []string{"Issue"},
			Properties: issueProperties(i),
			Links:      []Link{link("self", issuePath(project, i.ID))},
		})
	}
	return e
}

func commentEntity(project string, c *models.Comment) Entity {
	self := commentPath(project, c.IssueID, c.ID)
	return Entity{
		Class:      []string{"Comment"},
		Properties: commentProperties(c),
		Actions: []Action{
			{Name: "delete-comment", Title: "Delete comment", Method: http.MethodDelete, Href: self},
		},
		Links: []Link{
			link("self", self),
			link("Issue", issuePath(project, c.IssueID)),
		},
	}
}

func commentCollectionEntity(project string, issueID int, comments []*models.Comment, page models.Page, total int) Entity {
	base := commentsPath(project, issueID)
	e := Entity{
		Class:      []string{"Comment", "Collection"},
		Properties: CollectionProperties{CurrentPage: page.Number, PageSize: len(comments), CollectionSize: total},
		Actions: []Action{{
			Name:   "add-comment",
			Title:  "Add comment",
			Method: http.MethodPost,
			Href:   base,
			Type:   jsonType,
			Fields: []Field{{Name: "text", Type: "text"}},
		}},
		Links: append(collectionLinks(base, page, total), link("Issue", issuePath(project, issueID))),
	}
	for _, c := range comments {
		e.Entities = append(e.Entities, SubEntity{
			Rel:        []string{"comment"},
			Class:      []string{"Comment"},
			Properties: commentProperties(c),
			Links:      []Link{link("self", commentPath(project, issueID, c.ID))},
		})
	}
	return e
}

func collectionLinks(base string, page models.Page, total int) []Link {
	var links []Link
	if page.HasPrev() {
		links = append(links, link("previous", pagePath(base, page, page.Number-1)))
	}
	links = append(links, link("self", pagePath(base, page, page.Number)))
	if page.HasNext(total) {
		links = append(links, link("next", pagePath(base, page, page.Number+1)))
	}
	return links
}
