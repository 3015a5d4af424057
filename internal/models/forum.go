package models

import (
	"slices"
	"time"
)

// ForumPost — пост форума в том виде, в каком он хранится: Author содержит id пользователя.
type ForumPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Author    string    `json:"author"`
	Likes     []string  `json:"likes"`
	Comments  []string  `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Author — проекция автора {id, name}, вычисляемая при чтении.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnknownAuthorName подставляется, если автор поста не найден среди пользователей.
const UnknownAuthorName = "Unknown"

// PostWithAuthor — пост с автором, развёрнутым в проекцию.
type PostWithAuthor struct {
	ForumPost
	Author Author `json:"author"`
}

// ToggleLike убирает userID из likes, если он там есть, иначе добавляет в конец.
// Возвращает новый список и признак того, что лайк поставлен.
func ToggleLike(likes []string, userID string) ([]string, bool) {
	if i := slices.Index(likes, userID); i >= 0 {
		return slices.Delete(slices.Clone(likes), i, i+1), false
	}
	return append(slices.Clone(likes), userID), true
}

// ForumComment — комментарий к посту; ParentComment задан для ответов в ветке.
type ForumComment struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	Author        string    `json:"author"`
	Post          string    `json:"post"`
	ParentComment string    `json:"parentComment,omitempty"`
	Likes         []string  `json:"likes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CommentWithAuthor — комментарий с автором, развёрнутым в проекцию.
type CommentWithAuthor struct {
	ForumComment
	Author Author `json:"author"`
}
