package dto

// RenameFileRequest PUT /files/:id/rename
type RenameFileRequest struct {
	NewName string `json:"newName"`
}
