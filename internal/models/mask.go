// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package models

// SecretMask is the placeholder returned in place of every stored secret.
// A merge that receives this exact value keeps the previously stored secret,
// so the mask itself can never be persisted as a credential.
const SecretMask = "********"

// Mask returns a copy of cfg with every non-empty secret replaced by
// SecretMask. Empty secrets stay empty so the UI can tell "not configured"
// from "configured but hidden". Masking an already-masked config is a no-op.
func Mask(cfg DashboardConfig) DashboardConfig {
	for _, secret := range secretFields(&cfg) {
		if *secret != "" {
			*secret = SecretMask
		}
	}
	return cfg
}

// Merge resolves an incoming config against the stored one: secrets equal to
// SecretMask are replaced with the stored value, anything else (including an
// intentional empty string) is taken verbatim. URLs and usernames always come
// from the incoming payload.
func Merge(stored, incoming DashboardConfig) DashboardConfig {
	in := secretFields(&incoming)
	st := secretFields(&stored)
	for i, secret := range in {
		if *secret == SecretMask {
			*secret = *st[i]
		}
	}
	return incoming
}

// secretFields lists the credential fields subject to masking, in a fixed
// order shared by Mask and Merge. The Transmission username is deliberately
// not a secret; it is shown like a URL.
func secretFields(c *DashboardConfig) []*string {
	return []*string{
		&c.SonarrKey,
		&c.RadarrKey,
		&c.JackettKey,
		&c.TransmissionPass,
		&c.PlexToken,
		&c.JellyfinKey,
		&c.EmbyKey,
	}
}
