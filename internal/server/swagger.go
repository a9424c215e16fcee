package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title respdiff API
// @version 0.1
// @description Compare the responses of two HTTP endpoints and browse the stored comparison history.
// @contact.name respdiff Maintainers
// @contact.url https://github.com/raysh454/respdiff
// @BasePath /
