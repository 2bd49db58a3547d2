package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"career-console/internal/config"
	"career-console/internal/identity"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const maxResponseBytes = 10 << 20

// Client calls the remote career backend. Every call takes the caller's
// identity session; its token is attached as a bearer header.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	log     *zap.Logger
}

func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	return &Client{
		BaseURL: cfg.APIBaseURL,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		log:     log.Named("backend"),
	}
}

// UploadImport submits a file and its column mapping, returning the job id.
func (c *Client) UploadImport(ctx context.Context, sess identity.Session, req UploadRequest) (*UploadResponse, error) {
	mapping, err := json.Marshal(req.Mapping)
	if err != nil {
		return nil, fmt.Errorf("encode mapping: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(req.Content); err != nil {
		return nil, err
	}
	if err := mw.WriteField("target_table", req.TargetTable); err != nil {
		return nil, err
	}
	if err := mw.WriteField("mapping", string(mapping)); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	httpReq, err := c.newRequest(ctx, sess, true, http.MethodPost, "/api/import/upload", &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	var out UploadResponse
	if err := c.doJSON(httpReq, "upload", uploadValidator, &out); err != nil {
		return nil, err
	}
	c.log.Info("Import uploaded",
		zap.String("job_id", out.JobID.String()),
		zap.String("target_table", req.TargetTable),
		zap.Int("bytes", len(req.Content)))
	return &out, nil
}

// GetJob fetches the current status of an import job.
func (c *Client) GetJob(ctx context.Context, sess identity.Session, jobID string) (*ImportJob, error) {
	httpReq, err := c.newRequest(ctx, sess, true, http.MethodGet, "/api/import/jobs/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, err
	}
	var job ImportJob
	if err := c.doJSON(httpReq, "job status", jobValidator, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DownloadRejections streams the rejection report of a job into w.
func (c *Client) DownloadRejections(ctx context.Context, sess identity.Session, jobID string, w io.Writer) (int64, error) {
	httpReq, err := c.newRequest(ctx, sess, true, http.MethodGet, "/api/import/jobs/"+url.PathEscape(jobID)+"/rejections", nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("download rejections: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return 0, apiError(resp.StatusCode, body)
	}
	return io.Copy(w, resp.Body)
}

// SaveAnswers stores the full in-progress answer set for (email, test).
func (c *Client) SaveAnswers(ctx context.Context, sess identity.Session, req SaveAnswersRequest) error {
	if req.Answers == nil {
		req.Answers = Answers{}
	}
	httpReq, err := c.newJSONRequest(ctx, sess, false, http.MethodPost, "/api/test-answers", req)
	if err != nil {
		return err
	}
	return c.doJSON(httpReq, "save answers", nil, nil)
}

// LoadAnswers returns the saved answer set for (email, test), empty if none.
func (c *Client) LoadAnswers(ctx context.Context, sess identity.Session, email, testName string) (Answers, error) {
	q := url.Values{}
	q.Set("email", email)
	q.Set("test_name", testName)
	httpReq, err := c.newRequest(ctx, sess, false, http.MethodGet, "/api/test-answers?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var out loadAnswersResponse
	if err := c.doJSON(httpReq, "load answers", answersValidator, &out); err != nil {
		return nil, err
	}
	if out.Answers == nil {
		return Answers{}, nil
	}
	return out.Answers, nil
}

// Grade submits a finished test for scoring.
func (c *Client) Grade(ctx context.Context, sess identity.Session, req GradeRequest) (*GradeResult, error) {
	httpReq, err := c.newJSONRequest(ctx, sess, true, http.MethodPost, "/api/tests/"+url.PathEscape(req.TestName)+"/grade", req)
	if err != nil {
		return nil, err
	}
	var out gradeResponse
	if err := c.doJSON(httpReq, "grade", gradeValidator, &out); err != nil {
		return nil, err
	}

	result := &GradeResult{TestName: out.TestName}
	if result.TestName == "" {
		result.TestName = req.TestName
	}
	if out.Traits != nil {
		result.Kind = GradeKindTraits
		result.Traits = out.Traits
	} else {
		result.Kind = GradeKindPercentage
		result.Score = *out.Score
	}
	return result, nil
}

func (c *Client) newJSONRequest(ctx context.Context, sess identity.Session, authRequired bool, method, path string, payload any) (*http.Request, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := c.newRequest(ctx, sess, authRequired, method, path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) newRequest(ctx context.Context, sess identity.Session, authRequired bool, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.BaseURL, "/")+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	if sess == nil || !sess.IsAuthenticated() {
		if authRequired {
			return nil, identity.ErrNotAuthenticated
		}
		return req, nil
	}
	token, err := sess.Token(ctx)
	if err != nil {
		if authRequired {
			return nil, err
		}
		return req, nil
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

func (c *Client) doJSON(req *http.Request, endpoint string, schema *gojsonschema.Schema, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", endpoint, err)
	}

	if resp.StatusCode/100 != 2 {
		return apiError(resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if schema != nil {
		if err := validate(schema, endpoint, body); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, endpoint, err)
	}
	return nil
}

func apiError(status int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Error != "":
			msg = payload.Error
		case payload.Detail != "":
			msg = payload.Detail
		default:
			msg = payload.Message
		}
	}
	return &APIError{Status: status, Message: msg}
}
