package main

import (
	"log"

	"github.com/gorapang/Innerjoin-Server/internal/server"
)

// @title Innerjoin API
// @version 1.0
// @description Backend service for university club recruitment. Clubs publish recruitment posts, applicants apply through forms, clubs score applications, schedule interviews and announce results.
// @BasePath /api/v1
func main() {
	srv := server.NewServer()

	log.Printf("Server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("cannot start server: %s", err)
	}
}
