package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/joinemm/quotegame/pkg/game"
	"github.com/joinemm/quotegame/pkg/inventory"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Counter   int `json:"counter"`
	Threshold int `json:"threshold"`
}

func sendMessage(client *http.Client, baseURL string, msg game.Message) (*game.Result, error) {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/messages",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to send message: %s", errorResp.Error)
	}

	var result game.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse message response: %w", err)
	}
	return &result, nil
}

func getStatus(client *http.Client, baseURL string) (*statusResponse, error) {
	resp, err := client.Get(baseURL + "/v1/status")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}
	return &status, nil
}

func getInventory(client *http.Client, baseURL, userID string) (inventory.Inventory, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/inventory/%s", baseURL, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get inventory: %s", errorResp.Error)
	}

	var invResp struct {
		UserID string              `json:"user_id"`
		Items  inventory.Inventory `json:"items"`
	}
	if err := json.Unmarshal(body, &invResp); err != nil {
		return nil, fmt.Errorf("failed to parse inventory response: %w", err)
	}
	return invResp.Items, nil
}

func getLeaderboard(client *http.Client, baseURL string) ([]inventory.Total, error) {
	resp, err := client.Get(baseURL + "/v1/leaderboard")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var totals []inventory.Total
	if err := json.Unmarshal(body, &totals); err != nil {
		return nil, fmt.Errorf("failed to parse leaderboard response: %w", err)
	}
	return totals, nil
}

func forceSpawn(client *http.Client, baseURL, callerID string) (*game.Result, error) {
	jsonData, err := json.Marshal(map[string]string{"caller_id": callerID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal spawn request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/spawn",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to force spawn: %s", errorResp.Error)
	}

	var result game.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse spawn response: %w", err)
	}
	return &result, nil
}
