package agent

import (
	"context"
	"net/url"

	"github.com/alexschlessinger/martool/events"
)

// The seven generation operations share one shape: fixed path, fixed
// JSON body, streamed event response. Request structs mirror the wire
// contract field for field.

// MasterContentRequest generates the master post for a campaign.
type MasterContentRequest struct {
	CampaignID         string `json:"campaignId"`
	WorkspaceID        string `json:"workspaceId"`
	LanguagePreference string `json:"languagePreference"`
}

// PlatformVariantsRequest derives per-platform variants from existing
// master content.
type PlatformVariantsRequest struct {
	Platforms          []string `json:"platforms"`
	WorkspaceID        string   `json:"workspaceId"`
	LanguagePreference string   `json:"languagePreference"`
}

// BatchPostsRequest generates several master posts with variants in
// one server-side job.
type BatchPostsRequest struct {
	CampaignID  string   `json:"campaignId"`
	WorkspaceID string   `json:"workspaceId"`
	Language    string   `json:"language"`
	Platforms   []string `json:"platforms"`
	NumMasters  int      `json:"numMasters"`
}

// WorksheetRequest builds a marketing worksheet from four free-text
// inputs.
type WorksheetRequest struct {
	BusinessIdea     string `json:"businessIdea"`
	TargetCustomer   string `json:"targetCustomer"`
	ValueProposition string `json:"valueProposition"`
	MarketingGoals   string `json:"marketingGoals"`
	Language         string `json:"language"`
}

// BrandIdentityRequest derives a brand identity from a worksheet.
type BrandIdentityRequest struct {
	WorksheetID string `json:"worksheetId"`
	Language    string `json:"language"`
}

// MarketingStrategyRequest builds a strategy from worksheet, brand,
// and customer profile plus a free-text goal.
type MarketingStrategyRequest struct {
	WorksheetID       string `json:"worksheetId"`
	BrandIdentityID   string `json:"brandIdentityId"`
	CustomerProfileID string `json:"customerProfileId"`
	Goal              string `json:"goal"`
	Language          string `json:"language"`
}

// ContentBriefsRequest generates content briefs for a campaign across
// funnel stages.
type ContentBriefsRequest struct {
	CampaignID     string `json:"campaignId"`
	WorkspaceID    string `json:"workspaceId"`
	Language       string `json:"language"`
	AnglesPerStage int    `json:"anglesPerStage"`
}

// GenerateMasterContent streams master-content generation for a
// campaign.
func (c *Client) GenerateMasterContent(ctx context.Context, req MasterContentRequest, emit func(*events.Event)) error {
	return c.stream(ctx, "/generate-master-content", req, emit)
}

// GeneratePlatformVariants streams variant generation for existing
// master content.
func (c *Client) GeneratePlatformVariants(ctx context.Context, masterContentID string, req PlatformVariantsRequest, emit func(*events.Event)) error {
	return c.stream(ctx, "/generate-platform-variants/"+url.PathEscape(masterContentID), req, emit)
}

// BatchGeneratePosts streams batch generation of multiple masters
// with variants.
func (c *Client) BatchGeneratePosts(ctx context.Context, req BatchPostsRequest, emit func(*events.Event)) error {
	return c.stream(ctx, "/batch-generate-posts", req, emit)
}

// GenerateWorksheet streams worksheet generation.
func (c *Client) GenerateWorksheet(ctx context.Context, req WorksheetRequest, emit func(*events.Event)) error {
	return c.stream(ctx, "/generate-worksheet", req, emit)
}

// GenerateBrandIdentity streams brand-identity generation.
func (c *Client) GenerateBrandIdentity(ctx context.Context, req BrandIdentityRequest, emit func(*events.Event)) error {
	return c.stream(ctx, "/generate-brand-identity", req, emit)
}

// GenerateMarketingStrategy streams marketing-strategy generation.
func (c *Client) GenerateMarketingStrategy(ctx context.Context, req MarketingStrategyRequest, emit func(*events.Event)) error {
	return c.stream(ctx, "/generate-marketing-strategy", req, emit)
}

// GenerateContentBriefs streams content-brief generation.
func (c *Client) GenerateContentBriefs(ctx context.Context, req ContentBriefsRequest, emit func(*events.Event)) error {
	return c.stream(ctx, "/generate-content-briefs", req, emit)
}
