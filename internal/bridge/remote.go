package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// rpcRequest is the envelope posted to the bridge endpoint.
type rpcRequest struct {
	Fn   string      `json:"fn"`
	Args interface{} `json:"args,omitempty"`
}

// rpcResponse is the envelope every bridge call resolves to. Success=false
// with a message is a logical rejection; a failed round-trip is a transport
// error.
type rpcResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// RemoteStore talks to the spreadsheet bridge over HTTP.
type RemoteStore struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewRemoteStore(baseURL, token string, logger *zap.Logger) *RemoteStore {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if token != "" {
		client.SetAuthToken(token)
	}

	return &RemoteStore{
		httpClient: client,
		logger:     logger,
	}
}

// call posts one rpc envelope and decodes the data payload into out.
func (s *RemoteStore) call(ctx context.Context, fn string, args interface{}, out interface{}) error {
	var response rpcResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(rpcRequest{Fn: fn, Args: args}).
		SetResult(&response).
		Post("")

	if err != nil {
		s.logger.Error("Bridge call failed", zap.String("fn", fn), zap.Error(err))
		return fmt.Errorf("bridge call %s: %w", fn, err)
	}

	if resp.StatusCode() >= 400 {
		s.logger.Error("Bridge returned error status",
			zap.String("fn", fn),
			zap.Int("status", resp.StatusCode()),
		)
		return fmt.Errorf("bridge call %s: status %d", fn, resp.StatusCode())
	}

	if !response.Success {
		return fmt.Errorf("%w: %s", ErrRejected, response.Message)
	}

	if out != nil && len(response.Data) > 0 {
		if err := json.Unmarshal(response.Data, out); err != nil {
			return fmt.Errorf("bridge call %s: decode response: %w", fn, err)
		}
	}
	return nil
}

func (s *RemoteStore) FetchSchema(ctx context.Context) (Schema, error) {
	var schema Schema
	if err := s.call(ctx, "fetchSchema", nil, &schema); err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, fmt.Errorf("bridge call fetchSchema: empty schema payload")
	}
	return schema, nil
}

func (s *RemoteStore) ListMappings(ctx context.Context) ([]FieldMapping, error) {
	var mappings []FieldMapping
	if err := s.call(ctx, "listMappings", nil, &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

func (s *RemoteStore) SaveMapping(ctx context.Context, m FieldMapping) (FieldMapping, error) {
	var saved FieldMapping
	if err := s.call(ctx, "saveMapping", m, &saved); err != nil {
		return FieldMapping{}, err
	}
	if saved.MappingID == "" {
		// Older bridge versions reply with a bare success flag
		saved = m
	}
	return saved, nil
}

func (s *RemoteStore) DeleteMapping(ctx context.Context, id string) error {
	return s.call(ctx, "deleteFieldMapping", map[string]string{"mapping_id": id}, nil)
}

func (s *RemoteStore) AddColumn(ctx context.Context, sheet, header string) (AddColumnResult, error) {
	var result AddColumnResult
	err := s.call(ctx, "addColumnToSheet", map[string]string{
		"sheet_name":  sheet,
		"header_name": header,
	}, &result)
	if err != nil {
		return AddColumnResult{}, err
	}
	return result, nil
}

func (s *RemoteStore) ListRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	if err := s.call(ctx, "listRoles", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *RemoteStore) SaveRole(ctx context.Context, r Role) error {
	return s.call(ctx, "saveRole", r, nil)
}

func (s *RemoteStore) DeleteRole(ctx context.Context, name string) error {
	return s.call(ctx, "deleteRole", map[string]string{"name": name}, nil)
}

func (s *RemoteStore) ReadRows(ctx context.Context, sheet string) ([]Row, error) {
	var rows []Row
	if err := s.call(ctx, "readRows", map[string]string{"sheet_name": sheet}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *RemoteStore) AppendRow(ctx context.Context, sheet string, row Row) error {
	return s.call(ctx, "appendRow", map[string]interface{}{
		"sheet_name": sheet,
		"row":        row,
	}, nil)
}

func (s *RemoteStore) UpdateRow(ctx context.Context, sheet, keyHeader, keyValue string, row Row) error {
	return s.call(ctx, "updateRow", map[string]interface{}{
		"sheet_name": sheet,
		"key_header": keyHeader,
		"key_value":  keyValue,
		"row":        row,
	}, nil)
}
