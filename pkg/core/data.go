package core

// Collection is a named set of records.
type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LinkType relates two collections.
type LinkType struct {
	ID            string    `json:"id"`
	Name          string    `json:"name,omitempty"`
	CollectionIDs [2]string `json:"collectionIds"`
}

// Attribute is a field of a collection or link type. Nested attributes use
// dotted names ("address.city" is a child of "address").
type Attribute struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DocumentMeta carries record metadata relevant to the table.
type DocumentMeta struct {
	ParentID string `json:"parentId,omitempty"`
}

// Document is a stored record.
type Document struct {
	ID           string         `json:"id"`
	CollectionID string         `json:"collectionId,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	MetaData     DocumentMeta   `json:"metaData"`
}

// LinkInstance is a stored relation between two documents.
type LinkInstance struct {
	ID          string         `json:"id"`
	LinkTypeID  string         `json:"linkTypeId"`
	DocumentIDs [2]string      `json:"documentIds"`
	Data        map[string]any `json:"data,omitempty"`
}
