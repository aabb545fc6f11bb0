package translator

import (
	"testing"

	"github.com/monome-tools/gridbridge/internal/hardware"
	"github.com/stretchr/testify/assert"
)

func TestToHardwareEncodingTable(t *testing.T) {
	cases := []struct {
		name string
		addr string
		args []int
		want []byte
	}{
		{"led set on", "/grid/led/set", []int{3, 5, 1}, []byte{0x11, 3, 5}},
		{"led set off", "/grid/led/set", []int{3, 5, 0}, []byte{0x10, 3, 5}},
		{"led all off", "/grid/led/all", []int{0}, []byte{0x12}},
		{"led all on", "/grid/led/all", []int{1}, []byte{0x13}},
		{"intensity", "/grid/led/intensity", []int{15}, []byte{0x17, 15}},
		{"level set", "/grid/led/level/set", []int{1, 1, 12}, []byte{0x18, 1, 1, 12}},
		{"level all", "/grid/led/level/all", []int{4}, []byte{0x19, 4}},
		{
			"led map",
			"/grid/led/map",
			[]int{0, 0, 1, 2, 3, 4, 5, 6, 7, 8},
			[]byte{0x14, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8},
		},
		{
			"led row variable width",
			"/grid/led/row",
			[]int{0, 0, 255, 0},
			[]byte{0x15, 0, 0, 255, 0},
		},
		{
			"led col variable width",
			"/grid/led/col",
			[]int{0, 1, 42},
			[]byte{0x16, 0, 1, 42},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ToHardware(tc.addr, tc.args)
			assert.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToHardwareTruncatesToByteWidth(t *testing.T) {
	val := 300
	got, ok := ToHardware("/grid/led/intensity", []int{val})
	assert.True(t, ok)
	assert.Equal(t, []byte{0x17, byte(val)}, got)
}

func TestToHardwareUnknownAddressDropped(t *testing.T) {
	_, ok := ToHardware("/grid/nonsense", []int{1, 2, 3})
	assert.False(t, ok)
}

func TestToHardwareShortArgsDropped(t *testing.T) {
	_, ok := ToHardware("/grid/led/set", []int{1, 2})
	assert.False(t, ok)
}

func TestKeyEventArgs(t *testing.T) {
	down := KeyEventArgs(hardware.EventKeyDown, 2, 4)
	assert.Equal(t, [3]int32{2, 4, 1}, down)

	up := KeyEventArgs(hardware.EventKeyUp, 2, 4)
	assert.Equal(t, [3]int32{2, 4, 0}, up)
}

func TestKeyEventAddress(t *testing.T) {
	assert.Equal(t, "/monome/grid/key", KeyEventAddress("/monome"))
}
