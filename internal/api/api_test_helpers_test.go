package api

import (
	"testing"

	"github.com/phrazzld/instarag/internal/config"
	"github.com/stretchr/testify/require"
)

const testDocument = `
name: demo
title: Demo Assistant
description: Answers questions about the handbook.
version: "0.1.0"
authors:
  - name: Jane Doe
    email: jane@example.com
tags: [AI, RAG]
theme:
  mode: dark
  logo: ./logo.png
secrets:
  OPENAI_KEY: sk-test-value
  GEMINI_KEY: gm-test-value
models:
  chat:
    provider: gemini
    model_name: gemini-2.0-flash
    credentials:
      api_key: $GEMINI_KEY
  embeddings:
    model_name: text-embedding-3-small
    credentials:
      api_key: $OPENAI_KEY
source:
  - type: pdf
    data: ./handbook.pdf
  - type: url
    data: https://example.com/docs?token=$OPENAI_KEY
`

// newTestConfig runs the in-memory configuration pipeline on src.
func newTestConfig(t *testing.T, src string) *config.Config {
	t.Helper()
	doc, err := config.Parse([]byte(src))
	require.NoError(t, err)
	resolved, err := config.ResolveSecrets(doc, config.ExtractSecrets(doc))
	require.NoError(t, err)
	cfg, err := config.Validate(resolved.(*config.MapNode))
	require.NoError(t, err)
	return cfg
}
