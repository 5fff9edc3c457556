// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/activation/lib/protocol"
)

// RequestToken asks for an activation token, quoting the serial of a
// recent input event on surface. Returns ErrDenied if the daemon
// refuses. The token object is destroyed once the reply arrives.
func (c *Client) RequestToken(ctx context.Context, surface, serial, seat uint32) (string, error) {
	object := c.nextObject()
	event, err := c.call(ctx, protocol.Request{
		Op:      protocol.OpRequestToken,
		Object:  object,
		Surface: surface,
		Serial:  serial,
		Seat:    seat,
	}, object)
	if err != nil {
		return "", err
	}
	if destroyErr := c.send(protocol.Request{Op: protocol.OpDestroyToken, Object: object}); destroyErr != nil {
		return "", destroyErr
	}

	switch event.Event {
	case protocol.EventDone:
		return event.Token, nil
	case protocol.EventFailed:
		return "", ErrDenied
	default:
		return "", fmt.Errorf("unexpected %q reply to %s", event.Event, protocol.OpRequestToken)
	}
}

// Associate hands a token over to the launch of appID.
func (c *Client) Associate(token, appID string) error {
	return c.send(protocol.Request{Op: protocol.OpAssociate, Token: token, AppID: appID})
}

// SetCurrentToken claims the token this process was launched with.
func (c *Client) SetCurrentToken(token string) error {
	return c.send(protocol.Request{Op: protocol.OpSetCurrentToken, Token: token})
}

// Activate asks for the window of surface to be activated.
func (c *Client) Activate(surface uint32) error {
	return c.send(protocol.Request{Op: protocol.OpActivate, Surface: surface})
}

// CreateSurface creates a surface owned by this session.
func (c *Client) CreateSurface(ctx context.Context) (uint32, error) {
	event, err := c.call(ctx, protocol.Request{Op: protocol.OpCreateSurface}, 0)
	if err != nil {
		return 0, err
	}
	return event.Surface, nil
}

// MapWindow maps surface as a window. A nil workspace places it on the
// active workspace.
func (c *Client) MapWindow(ctx context.Context, surface uint32, title string, workspace *int) (uint64, error) {
	event, err := c.call(ctx, protocol.Request{
		Op:        protocol.OpMapWindow,
		Surface:   surface,
		Title:     title,
		Workspace: workspace,
	}, 0)
	if err != nil {
		return 0, err
	}
	return event.Window, nil
}

// Input simulates a user input event on surface and returns its
// serial. device is "pointer", "keyboard", or "touch".
func (c *Client) Input(ctx context.Context, seat, surface uint32, device string) (uint32, error) {
	event, err := c.call(ctx, protocol.Request{
		Op:      protocol.OpInput,
		Seat:    seat,
		Surface: surface,
		Device:  device,
	}, 0)
	if err != nil {
		return 0, err
	}
	return event.Serial, nil
}

// SetWorkspaceHint sets the workspace a pending launch should open on.
// A nil workspace clears the preference. Returns false if the token
// names no launch that is still waiting to be claimed.
func (c *Client) SetWorkspaceHint(ctx context.Context, token string, workspace *int) (bool, error) {
	event, err := c.call(ctx, protocol.Request{
		Op:        protocol.OpSetWorkspaceHint,
		Token:     token,
		Workspace: workspace,
	}, 0)
	if err != nil {
		return false, err
	}
	return event.OK, nil
}

// State returns the daemon's window model and activation table sizes.
func (c *Client) State(ctx context.Context) (protocol.State, error) {
	event, err := c.call(ctx, protocol.Request{Op: protocol.OpState}, 0)
	if err != nil {
		return protocol.State{}, err
	}
	if event.State == nil {
		return protocol.State{}, errors.New("state reply carried no state")
	}
	return *event.State, nil
}
