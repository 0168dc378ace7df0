// Command portfolio serves the portfolio site API: public project and
// settings reads, click tracking, and the signed-in admin area.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/portfolio/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
