// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// activationctl is a command-line client for activationd.
//
//	activationctl token [--surface N --serial N] [--seat N]
//	activationctl associate TOKEN APP_ID [--workspace N]
//	activationctl set-token TOKEN
//	activationctl activate [--token TOKEN] [--title TITLE] [--hold]
//	activationctl state [--plain]
//	activationctl watch [--interval D]
//
// token without --surface and --serial simulates a click on a
// throwaway window and requests a token with it, which is how a
// launcher would get one. The token stays redeemable after
// activationctl exits.
//
// set-token claims a token on its own session and holds the session
// open until interrupted; activate with --token claims and activates
// in one session, which is what a launched application does.
package main
