package compileinfo

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	info := FromBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.24.0",
		Path:      "github.com/carbocation/growthexpr/cmd/growthexpr",
		Main:      debug.Module{Path: "github.com/carbocation/growthexpr", Version: "(devel)"},
		Deps: []*debug.Module{
			{Path: "gonum.org/v1/gonum", Version: "v0.9.3"},
			{Path: "github.com/jmoiron/sqlx", Version: "v1.3.4"},
			nil,
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2021-04-08T12:12:54Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	assert.Equal(t, "abc123", info.Commit)
	assert.True(t, info.Modified)
	assert.Equal(t, map[string]string{"gonum.org/v1/gonum": "v0.9.3"}, info.Deps)

	s := info.String()
	assert.True(t, strings.HasPrefix(s, "github.com/carbocation/growthexpr/cmd/growthexpr (module github.com/carbocation/growthexpr (devel)) was built with go1.24.0 at commit abc123"), s)
	assert.Contains(t, s, "modified after that commit")
	assert.Contains(t, s, "gonum.org/v1/gonum@v0.9.3")
	assert.NotContains(t, s, "sqlx")
}

func TestStringWithoutVCS(t *testing.T) {
	s := CompileInfo{Binary: "growthexpr", GoVersion: "go1.24.0"}.String()
	assert.NotContains(t, s, "commit")
	assert.NotContains(t, s, "Numerical")
}
