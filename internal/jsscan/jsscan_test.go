package jsscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJS = `import React from 'react';
import { useState } from 'react';
const lodash = require('lodash');

// helper comment
export function loadUser(id) {
  return fetch('/users/' + id);
}

export const formatName = (user) => user.name.trim();

async function refresh() {}

export default class UserCard {
  render() {}
}
`

func TestScan_Functions(t *testing.T) {
	fs := Scan([]byte(sampleJS), "user.js")

	require.Len(t, fs.Functions, 3)

	assert.Equal(t, "loadUser", fs.Functions[0].Name)
	assert.Equal(t, 6, fs.Functions[0].Line)
	assert.False(t, fs.Functions[0].IsAsync)

	assert.Equal(t, "formatName", fs.Functions[1].Name)
	assert.True(t, fs.Functions[1].IsArrow)

	assert.Equal(t, "refresh", fs.Functions[2].Name)
	assert.True(t, fs.Functions[2].IsAsync)
}

func TestScan_Classes(t *testing.T) {
	fs := Scan([]byte(sampleJS), "user.js")

	require.Len(t, fs.Classes, 1)
	assert.Equal(t, "UserCard", fs.Classes[0].Name)
}

func TestScan_Imports(t *testing.T) {
	fs := Scan([]byte(sampleJS), "user.js")

	var sources []string
	for _, imp := range fs.Imports {
		sources = append(sources, imp.Source)
	}
	assert.Equal(t, []string{"react", "react", "lodash"}, sources)
}

func TestScan_Exports(t *testing.T) {
	fs := Scan([]byte(sampleJS), "user.js")
	assert.Equal(t, []string{"loadUser", "formatName", "UserCard"}, fs.Exports)
}

func TestScan_IgnoresComments(t *testing.T) {
	fs := Scan([]byte("// function hidden() {}\n/* class Nope {} */\n"), "c.js")
	assert.Empty(t, fs.Functions)
	assert.Empty(t, fs.Classes)
}

func TestIsScannable(t *testing.T) {
	assert.True(t, IsScannable("app.ts"))
	assert.True(t, IsScannable("component.tsx"))
	assert.True(t, IsScannable("lib.mjs"))
	assert.False(t, IsScannable("main.py"))
	assert.False(t, IsScannable("style.css"))
}
