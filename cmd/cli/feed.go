package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	feedSection     string
	feedCommunities string
	feedLimit       int

	communityID       string
	communityTypes    string
	communityPage     int
	communityPageSize int
	communitySince    string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse activity feeds",
	Long:  "Commands for previewing your personal activity feed and community-wide activity",
}

var feedActivitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Show your personal activity feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if feedSection != "" {
			params.Set("section", feedSection)
		}
		if feedCommunities != "" {
			params.Set("community_ids", feedCommunities)
		}
		if feedLimit > 0 {
			params.Set("limit", strconv.Itoa(feedLimit))
		}
		return showFeed("/api/v1/feed/activities", params)
	},
}

var feedCommunityCmd = &cobra.Command{
	Use:   "community",
	Short: "Show a community's activity feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		if communityID == "" {
			return fmt.Errorf("--community is required")
		}
		params := url.Values{}
		params.Set("community_id", communityID)
		if communityTypes != "" {
			params.Set("types", communityTypes)
		}
		if communityPage > 1 {
			params.Set("page", strconv.Itoa(communityPage))
		}
		if communityPageSize > 0 {
			params.Set("page_size", strconv.Itoa(communityPageSize))
		}
		if communitySince != "" {
			params.Set("since", communitySince)
		}
		return showFeed("/api/v1/feed/community", params)
	},
}

func init() {
	feedActivitiesCmd.Flags().StringVar(&feedSection, "section", "", "Filter by section: attention, in_progress, upcoming, history")
	feedActivitiesCmd.Flags().StringVar(&feedCommunities, "communities", "", "Comma-separated community IDs to filter by")
	feedActivitiesCmd.Flags().IntVar(&feedLimit, "limit", 0, "Maximum number of items (0 = no limit)")

	feedCommunityCmd.Flags().StringVar(&communityID, "community", "", "Community ID (required)")
	feedCommunityCmd.Flags().StringVar(&communityTypes, "types", "", "Comma-separated activity types to include")
	feedCommunityCmd.Flags().IntVar(&communityPage, "page", 1, "Page number (1-based)")
	feedCommunityCmd.Flags().IntVar(&communityPageSize, "page-size", 0, "Items per page")
	feedCommunityCmd.Flags().StringVar(&communitySince, "since", "", "Only show activity after this RFC3339 timestamp")

	feedCmd.AddCommand(feedActivitiesCmd)
	feedCmd.AddCommand(feedCommunityCmd)
}

// feedItem mirrors the fields the text renderer needs from the API response.
type feedItem struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	UrgencyLevel string `json:"urgency_level"`
	DueDate      string `json:"due_date"`
	CreatedAt    string `json:"created_at"`
}

type feedResponse struct {
	Items []feedItem `json:"items"`
	Meta  struct {
		Count int `json:"count"`
	} `json:"meta"`
}

func showFeed(path string, params url.Values) error {
	reqURL := apiURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+authToken)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		json.Unmarshal(body, &errResp)
		if msg, ok := errResp["error"].(string); ok {
			return fmt.Errorf("API error: %s", msg)
		}
		return fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(feed.Items) == 0 {
		fmt.Println("No activity.")
		return nil
	}

	for _, item := range feed.Items {
		marker := " "
		switch item.UrgencyLevel {
		case "urgent":
			marker = "!"
		case "soon":
			marker = "~"
		}
		fmt.Printf("%s [%s] %s\n", marker, item.Type, item.Title)
		if item.Description != "" {
			fmt.Printf("    %s\n", item.Description)
		}
		if item.DueDate != "" {
			fmt.Printf("    due: %s\n", item.DueDate)
		}
	}
	fmt.Printf("\n%d items\n", feed.Meta.Count)
	return nil
}
