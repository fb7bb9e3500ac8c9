package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	dev := Info{Version: "dev", CommitHash: "abc1234def", BuildTime: "unknown"}
	assert.Equal(t, "qsfdecode dev (commit abc1234def, built unknown)", dev.String())
	assert.Equal(t, "abc1234", dev.Short())

	tagged := Info{Version: "v0.3.0", CommitHash: "abc", BuildTime: "2024-05-01"}
	assert.Equal(t, "qsfdecode v0.3.0 (commit abc, built 2024-05-01)", tagged.String())
	assert.Equal(t, "abc", tagged.Short())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.CommitHash)
}
