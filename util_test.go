package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMDMFile(t *testing.T) {
	assert.True(t, isMDMFile("KOKX20210902_000428_V06_MDM"))
	assert.True(t, isMDMFile("KOKX20210902_000428_V06_mdm.gz"))
	assert.False(t, isMDMFile("KOKX20210902_000428_V06"))
	assert.False(t, isMDMFile("KVWX20150515_080737_V06.gz"))
}

func TestDropMDMFiles(t *testing.T) {
	in := []string{"a_V06", "b_V06_MDM", "c_V06"}
	assert.Equal(t, []string{"a_V06", "c_V06"}, dropMDMFiles(in))
}
