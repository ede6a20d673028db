package docs

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

var routerAnnotation = regexp.MustCompile(`^// @Router (\S+) \[(\w+)\]$`)

func TestDocCoversEveryAnnotatedRoute(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	files, err := filepath.Glob("../handlers/*.go")
	require.NoError(t, err)

	annotated := 0
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := os.Open(name)
		require.NoError(t, err)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			m := routerAnnotation.FindStringSubmatch(scanner.Text())
			if m == nil {
				continue
			}
			annotated++
			_, ok := doc.Paths[m[1]][m[2]]
			assert.True(t, ok, "%s %s from %s is missing in the registered doc", m[2], m[1], name)
		}
		require.NoError(t, scanner.Err())
		f.Close()
	}
	assert.NotZero(t, annotated)

	documented := 0
	for _, ops := range doc.Paths {
		documented += len(ops)
	}
	assert.Equal(t, annotated, documented)
}
