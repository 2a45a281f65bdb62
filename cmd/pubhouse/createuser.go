package main

import (
	"context"
	"fmt"

	"github.com/eringen/pubhouse"
	"github.com/eringen/pubhouse/blog"
	"github.com/eringen/pubhouse/content"
)

func runCreateUser(username, email, password string) error {
	cfg, err := pubhouse.LoadConfig("")
	if err != nil {
		return err
	}
	logger := pubhouse.NewLogger(cfg)
	store, err := content.Open(cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := blog.New(store, blog.WithLogger(logger))
	if _, err := svc.CreateUser(context.Background(), username, email, password); err != nil {
		return err
	}
	fmt.Printf("User '%s' created successfully.\n", username)
	return nil
}
