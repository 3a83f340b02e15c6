package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ittybitycity/game/geom"
)

const maxLevelBytes = 8 << 20

var levelClient = &http.Client{Timeout: 10 * time.Second}

type levelResult struct {
	level    geom.Level
	fallback bool
}

// fetchLevel GETs the level document from the relay. Any failure falls back
// to the deterministic generated town so the simulation always has geometry.
func fetchLevel(ctx context.Context, serverURL, name, seed string) levelResult {
	level, err := fetchLevelDocument(ctx, serverURL, name)
	if err != nil {
		return levelResult{level: geom.GenerateTown(seed), fallback: true}
	}
	return levelResult{level: level}
}

func fetchLevelDocument(ctx context.Context, serverURL, name string) (geom.Level, error) {
	url := fmt.Sprintf("%s/levels/%s.json", strings.TrimRight(serverURL, "/"), name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return geom.Level{}, fmt.Errorf("build level request: %w", err)
	}

	resp, err := levelClient.Do(req)
	if err != nil {
		return geom.Level{}, fmt.Errorf("fetch level: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geom.Level{}, fmt.Errorf("fetch level: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxLevelBytes))
	if err != nil {
		return geom.Level{}, fmt.Errorf("read level body: %w", err)
	}

	level, err := geom.DecodeLevel(raw)
	if err != nil {
		return geom.Level{}, fmt.Errorf("decode level: %w", err)
	}
	return level, nil
}
