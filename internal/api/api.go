// Package api holds the typed calls to the daily log service. Every call goes
// through the gateway; sign in and sign up hand the result to the session store.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/errors"
	"github.com/julianstephens/dailylog/internal/gateway"
	"github.com/julianstephens/dailylog/internal/logger"
	"github.com/julianstephens/dailylog/internal/models"
)

// ErrNotPersisted is wrapped around a session persistence failure after a
// successful sign in. The session is live for this process regardless.
var ErrNotPersisted = errors.New("signed in, but the session could not be saved")

// Caller performs one gateway request.
type Caller interface {
	Call(ctx context.Context, req gateway.Request, out any) error
}

// Sessions is the slice of the session store the client mutates.
type Sessions interface {
	Establish(profile models.UserProfile, credential string) error
	Clear()
}

type Client struct {
	gw       Caller
	sessions Sessions
}

func New(gw Caller, sessions Sessions) *Client {
	return &Client{gw: gw, sessions: sessions}
}

type authResponse struct {
	User        *models.UserProfile `json:"user"`
	AccessToken string              `json:"access_token"`
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, req models.SignInRequest) (models.Session, error) {
	if err := req.Validate(); err != nil {
		return models.Anonymous(), err
	}

	var resp authResponse
	err := c.gw.Call(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/signin",
		Body:      req,
		Anonymous: true,
		Fallback:  constants.MsgSignInFailed,
	}, &resp)
	if err != nil {
		return models.Anonymous(), err
	}
	return c.establish(resp, models.UserProfile{Username: req.Username})
}

// SignUp creates an account and signs it in.
func (c *Client) SignUp(ctx context.Context, req models.SignUpRequest) (models.Session, error) {
	if err := req.Validate(); err != nil {
		return models.Anonymous(), err
	}

	var resp authResponse
	err := c.gw.Call(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/signup",
		Body:      req,
		Anonymous: true,
		Fallback:  constants.MsgSignUpFailed,
	}, &resp)
	if err != nil {
		return models.Anonymous(), err
	}
	return c.establish(resp, models.UserProfile{
		Username:       req.Username,
		WeightKg:       req.WeightKg,
		TargetWeightKg: models.Float(req.TargetWeightKg),
		HeightCm:       req.HeightCm,
		Gender:         req.Gender,
		ActivityLevel:  req.ActivityLevel,
	})
}

// establish installs the returned session. fallback stands in for the
// profile when the service omits it.
func (c *Client) establish(resp authResponse, fallback models.UserProfile) (models.Session, error) {
	if resp.AccessToken == "" {
		return models.Anonymous(), errors.Request(http.StatusOK, constants.MsgNoToken, nil)
	}

	profile := fallback
	if resp.User != nil && resp.User.Username != "" {
		profile = *resp.User
	}

	sess := models.Session{Profile: &profile, Credential: resp.AccessToken}
	if err := c.sessions.Establish(profile, resp.AccessToken); err != nil {
		logger.Warn("Session not persisted", "user", profile.Username, "error", err)
		return sess.Clone(), fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return sess.Clone(), nil
}

// SignOut ends the session locally. The service keeps no session state.
func (c *Client) SignOut() {
	c.sessions.Clear()
}

// LogEntry submits one free-text sentence and returns the day's updated totals.
func (c *Client) LogEntry(ctx context.Context, sentence string) (models.DailySummary, error) {
	req := models.LogRequest{Sentence: sentence}
	if err := req.Validate(); err != nil {
		return models.DailySummary{}, err
	}

	var resp models.SummaryPayload
	err := c.gw.Call(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/log_input",
		Body:   req,
	}, &resp)
	if err != nil {
		return models.DailySummary{}, err
	}
	return resp.Normalize(), nil
}

// DaySummary fetches the totals and entries for date. A zero date asks the
// service for its own notion of today.
func (c *Client) DaySummary(ctx context.Context, date time.Time) (models.DaySummary, error) {
	var query url.Values
	if !date.IsZero() {
		query = url.Values{"date": {date.Format(constants.DateFormat)}}
	}

	var resp models.DaySummary
	err := c.gw.Call(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "/today_summary",
		Query:  query,
	}, &resp)
	if err != nil {
		return models.DaySummary{}, err
	}
	return resp, nil
}

// ListWeights returns the user's weight entries in service order.
func (c *Client) ListWeights(ctx context.Context) ([]models.WeightEntry, error) {
	var resp []models.WeightEntry
	err := c.gw.Call(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "/weights",
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = []models.WeightEntry{}
	}
	return resp, nil
}

// RecordWeight adds a reading. recordedAt may be nil to let the service stamp it.
func (c *Client) RecordWeight(ctx context.Context, valueKg float64, recordedAt *time.Time) (models.WeightEntry, error) {
	req := models.WeightRequest{ValueKg: valueKg}
	if recordedAt != nil {
		req.RecordedAt = &models.Timestamp{Time: *recordedAt}
	}
	if err := req.Validate(); err != nil {
		return models.WeightEntry{}, err
	}

	var raw json.RawMessage
	err := c.gw.Call(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/weights",
		Body:   req,
	}, &raw)
	if err != nil {
		return models.WeightEntry{}, err
	}

	// Some deployments answer with a bare confirmation instead of the entry.
	var created models.WeightEntry
	if json.Unmarshal(raw, &created) == nil && created.ValueKg > 0 {
		return created, nil
	}
	return models.WeightEntry{ValueKg: req.ValueKg, RecordedAt: req.RecordedAt}, nil
}
