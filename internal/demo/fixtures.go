package demo

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"crowdfund/internal/format"
)

//go:embed fixtures/campaigns.yaml
var defaultFixtures []byte

// walletOwner in a fixture stands for the demo wallet's address.
const walletOwner = "wallet"

type fixtureFile struct {
	Campaigns []fixtureCampaign `yaml:"campaigns"`
}

type fixtureCampaign struct {
	Owner       string `yaml:"owner"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Target      string `yaml:"target"`
	Collected   string `yaml:"collected"`
	DaysLeft    int    `yaml:"days_left"`
	Image       string `yaml:"image"`
}

// parseFixtures decodes YAML fixtures into ledger entries relative to now.
func parseFixtures(data []byte, walletAddr string, now time.Time) ([]*entry, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("demo: decode fixtures: %w", err)
	}
	entries := make([]*entry, 0, len(file.Campaigns))
	for i, fc := range file.Campaigns {
		target, err := format.ParseEther(fc.Target)
		if err != nil {
			return nil, fmt.Errorf("demo: fixture %d target: %w", i, err)
		}
		collected, err := format.ParseEther(orDefault(fc.Collected, "0"))
		if err != nil {
			return nil, fmt.Errorf("demo: fixture %d collected: %w", i, err)
		}
		owner := fc.Owner
		if owner == walletOwner {
			owner = walletAddr
		}
		entries = append(entries, &entry{
			owner:       owner,
			title:       fc.Title,
			description: fc.Description,
			target:      target,
			deadline:    now.Add(time.Duration(fc.DaysLeft) * 24 * time.Hour).UnixMilli(),
			collected:   collected,
			image:       fc.Image,
		})
	}
	return entries, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
