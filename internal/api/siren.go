package api

// SirenMediaType is the content type of every resource representation.
const SirenMediaType = "application/vnd.siren+json"

// Entity is a Siren resource representation.
type Entity struct {
	Class      []string    `json:"class,omitempty"`
	Properties any         `json:"properties,omitempty"`
	Entities   []SubEntity `json:"entities,omitempty"`
	Actions    []Action    `json:"actions,omitempty"`
	Links      []Link      `json:"links,omitempty"`
	Title      string      `json:"title,omitempty"`
}

// SubEntity is an entity embedded in a collection.
type SubEntity struct {
	Rel        []string `json:"rel"`
	Class      []string `json:"class,omitempty"`
	Properties any      `json:"properties,omitempty"`
	Links      []Link   `json:"links,omitempty"`
}

// Link is a navigational link.
type Link struct {
	Rel   []string `json:"rel"`
	Href  string   `json:"href"`
	Title string   `json:"title,omitempty"`
}

// Action describes a request the client can make against the resource.
type Action struct {
	Name   string  `json:"name"`
	Title  string  `json:"title,omitempty"`
	Method string  `json:"method"`
	Href   string  `json:"href"`
	Type   string  `json:"type,omitempty"`
	Fields []Field `json:"fields,omitempty"`
}

// Field is one input of an Action.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func link(rel, href string) Link {
	return Link{Rel: []string{rel}, Href: href}
}
