package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poolYAML = `
vlan:
  claims:
    - id: "100-199"
      labels:
        owner: a
    - labels:
        owner: b
  releases:
    - "150-199"
vxlan:
  offset: 1000
  max: 1999
  claims:
    - id: "1000-1009"
      labels:
        tenant: t1
ip:
  range: 10.0.0.0-10.0.0.255
  claims:
    - id: 10.0.0.0/28
      labels:
        purpose: infra
    - id: 10.0.0.100
  releases:
    - 10.0.0.8/29
`

func TestParseConfig(t *testing.T) {
	cases := map[string]struct {
		data        string
		expectedErr bool
	}{
		"Normal": {
			data: poolYAML,
		},
		"ErrorEmpty": {
			data:        "",
			expectedErr: true,
		},
		"ErrorSyntax": {
			data:        "vlan: [",
			expectedErr: true,
		},
		"ErrorVXLANMax": {
			data:        "vxlan:\n  offset: 10\n",
			expectedErr: true,
		},
		"ErrorVLANSizeWithID": {
			data:        "vlan:\n  claims:\n    - id: \"100\"\n      size: 10\n",
			expectedErr: true,
		},
		"VLANSize": {
			data: "vlan:\n  claims:\n    - size: 10\n",
		},
		"ErrorVXLANSize": {
			data:        "vxlan:\n  max: 100\n  claims:\n    - size: 10\n",
			expectedErr: true,
		},
		"ErrorIPRange": {
			data:        "ip:\n  claims:\n    - id: 10.0.0.1\n",
			expectedErr: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfig([]byte(tc.data))
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseIDRange(t *testing.T) {
	cases := map[string]struct {
		s             string
		expectedStart uint16
		expectedSize  uint64
		expectedErr   bool
	}{
		"Single": {
			s:             "42",
			expectedStart: 42,
			expectedSize:  1,
		},
		"Range": {
			s:             "100 - 199",
			expectedStart: 100,
			expectedSize:  100,
		},
		"ErrorInverted": {
			s:           "10-5",
			expectedErr: true,
		},
		"ErrorOverflow": {
			s:           "70000",
			expectedErr: true,
		},
		"ErrorSyntax": {
			s:           "a-b",
			expectedErr: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			start, size, err := parseIDRange[uint16](tc.s, 16)
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedStart, start)
			assert.Equal(t, tc.expectedSize, size)
		})
	}
}

func TestRun(t *testing.T) {
	cfg, err := parseConfig([]byte(poolYAML))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(cfg, &out))

	want := "vlan: 54 claimed, free {[3, 100), [150, 4095)}\n" +
		"vxlan: 10 claimed\n" +
		"  [1000, 1010)=tenant=t1\n" +
		"ip: 9 claimed\n" +
		"  10.0.0.0-10.0.0.7 purpose=infra\n" +
		"  10.0.0.100-10.0.0.100\n" +
		"  free 10.0.0.8/29 10.0.0.16/28 10.0.0.32/27 10.0.0.64/27 10.0.0.96/30 10.0.0.101/32 10.0.0.102/31 10.0.0.104/29 10.0.0.112/28 10.0.0.128/25\n"
	assert.Equal(t, want, out.String())
}

func TestRunError(t *testing.T) {
	cfg, err := parseConfig([]byte("vlan:\n  claims:\n    - id: \"0-10\"\n"))
	require.NoError(t, err)
	assert.Error(t, run(cfg, &bytes.Buffer{}))
}
