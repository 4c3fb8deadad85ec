package models

import "time"

// Project is a gallery entry
type Project struct {
	ID          int64  `json:"id" yaml:"-"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image" yaml:"image"`
	Likes       int    `json:"likes" yaml:"likes"`
	Dislikes    int    `json:"dislikes" yaml:"dislikes"`
}

// Comment belongs to a project and can only be changed by its author
type Comment struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectId"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}
