// Command reelcircle serves the moderation and rating API.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/waffle/app"
	"github.com/reelcircle/reelcircle/internal/app/bootstrap"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
