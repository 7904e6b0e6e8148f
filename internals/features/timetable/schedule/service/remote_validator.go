package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RemoteValidator is an optional, best-effort supplement to local validation.
// Its conflicts are merged into the local result; its unavailability never
// blocks a locally valid edit.
type RemoteValidator interface {
	ValidateSlot(ctx context.Context, sectionID uuid.UUID, day Day, slot Slot, subjectCode string, facultyID *uuid.UUID) ([]Conflict, error)
}

type RemoteValidatorHTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemoteValidatorHTTPClient(baseURL string, httpClient *http.Client) *RemoteValidatorHTTPClient {
	return &RemoteValidatorHTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type remoteValidateRequest struct {
	SectionID   uuid.UUID  `json:"section_id"`
	Day         string     `json:"day"`
	Slot        int        `json:"slot"`
	SubjectCode string     `json:"subject_code,omitempty"`
	FacultyID   *uuid.UUID `json:"faculty_id,omitempty"`
}

type remoteValidateResponse struct {
	Conflicts []Conflict `json:"conflicts"`
}

func (c *RemoteValidatorHTTPClient) ValidateSlot(ctx context.Context, sectionID uuid.UUID, day Day, slot Slot, subjectCode string, facultyID *uuid.UUID) ([]Conflict, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	payload, err := json.Marshal(remoteValidateRequest{
		SectionID:   sectionID,
		Day:         day.String(),
		Slot:        int(slot),
		SubjectCode: subjectCode,
		FacultyID:   facultyID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate-slot", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote validator unexpected status: %d", resp.StatusCode)
	}

	var body remoteValidateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Conflicts, nil
}

func DefaultRemoteValidatorHTTPClient() *http.Client {
	return &http.Client{Timeout: 3 * time.Second}
}
