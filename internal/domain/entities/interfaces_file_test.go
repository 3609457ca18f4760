package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressBlock_Equal(t *testing.T) {
	tests := []struct {
		name      string
		a         *AddressBlock
		b         *AddressBlock
		wantEqual bool
	}{
		{
			name: "동일한 블록",
			a: &AddressBlock{
				Scalars:  map[string]string{"address": "192.168.1.10", "netmask": "255.255.255.0"},
				Commands: []string{"up echo up", "down echo down"},
			},
			b: &AddressBlock{
				Scalars:  map[string]string{"netmask": "255.255.255.0", "address": "192.168.1.10"},
				Commands: []string{"up echo up", "down echo down"},
			},
			wantEqual: true,
		},
		{
			name:      "스칼라 값이 다름",
			a:         &AddressBlock{Scalars: map[string]string{"address": "192.168.1.10"}},
			b:         &AddressBlock{Scalars: map[string]string{"address": "192.168.1.11"}},
			wantEqual: false,
		},
		{
			name:      "스칼라 키가 다름",
			a:         &AddressBlock{Scalars: map[string]string{"address": "192.168.1.10"}},
			b:         &AddressBlock{Scalars: map[string]string{"gateway": "192.168.1.10"}},
			wantEqual: false,
		},
		{
			name:      "명령 순서가 다름",
			a:         &AddressBlock{Commands: []string{"up echo a", "down echo b"}},
			b:         &AddressBlock{Commands: []string{"down echo b", "up echo a"}},
			wantEqual: false,
		},
		{
			name:      "명령 개수가 다름",
			a:         &AddressBlock{Commands: []string{"up echo a"}},
			b:         &AddressBlock{Commands: []string{"up echo a", "up echo a"}},
			wantEqual: false,
		},
		{
			name:      "중복 명령도 순서대로 비교",
			a:         &AddressBlock{Commands: []string{"up echo a", "up echo a"}},
			b:         &AddressBlock{Commands: []string{"up echo a", "up echo a"}},
			wantEqual: true,
		},
		{
			name:      "빈 블록과 새로 생성한 블록",
			a:         &AddressBlock{},
			b:         NewAddressBlock(),
			wantEqual: true,
		},
		{
			name:      "nil과 nil",
			a:         nil,
			b:         nil,
			wantEqual: true,
		},
		{
			name:      "nil과 빈 블록",
			a:         nil,
			b:         NewAddressBlock(),
			wantEqual: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantEqual, tt.a.Equal(tt.b))
			assert.Equal(t, tt.wantEqual, tt.b.Equal(tt.a))
		})
	}
}

func TestInterfaceEntry_Equal(t *testing.T) {
	base := func() *InterfaceEntry {
		return &InterfaceEntry{
			Auto:      true,
			IfaceType: IfaceTypeStatic,
			Families: map[string]*AddressBlock{
				AddrFamilyInet: {
					Scalars:  map[string]string{"address": "10.0.0.2", "netmask": "255.255.255.0"},
					Commands: []string{"post-up ethtool -K eth0 tso off"},
				},
			},
		}
	}

	t.Run("동일한 엔트리", func(t *testing.T) {
		assert.True(t, base().Equal(base()))
	})

	t.Run("auto 플래그가 다름", func(t *testing.T) {
		other := base()
		other.Auto = false
		assert.False(t, base().Equal(other))
	})

	t.Run("hotplug 플래그가 다름", func(t *testing.T) {
		other := base()
		other.Hotplug = true
		assert.False(t, base().Equal(other))
	})

	t.Run("인터페이스 타입이 다름", func(t *testing.T) {
		other := base()
		other.IfaceType = IfaceTypeDHCP
		assert.False(t, base().Equal(other))
	})

	t.Run("패밀리 구성이 다름", func(t *testing.T) {
		other := base()
		other.Families[AddrFamilyInet6] = NewAddressBlock()
		assert.False(t, base().Equal(other))
	})

	t.Run("블록 내용이 다름", func(t *testing.T) {
		other := base()
		other.Families[AddrFamilyInet].Scalars["gateway"] = "10.0.0.1"
		assert.False(t, base().Equal(other))
	})

	t.Run("nil 패밀리 맵과 빈 패밀리 맵", func(t *testing.T) {
		a := &InterfaceEntry{IfaceType: IfaceTypeDHCP}
		b := &InterfaceEntry{IfaceType: IfaceTypeDHCP, Families: map[string]*AddressBlock{}}
		assert.True(t, a.Equal(b))
	})
}

func TestInterfaceEntry_IsEmpty(t *testing.T) {
	tests := []struct {
		name      string
		entry     *InterfaceEntry
		wantEmpty bool
	}{
		{"빈 엔트리", NewEmptyInterfaceEntry(), true},
		{"기본값 엔트리 - dhcp 타입 보유", NewInterfaceEntry(), false},
		{"auto 플래그만 있는 엔트리", &InterfaceEntry{Auto: true}, false},
		{"패밀리만 있는 엔트리", &InterfaceEntry{Families: map[string]*AddressBlock{AddrFamilyInet: NewAddressBlock()}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantEmpty, tt.entry.IsEmpty())
		})
	}
}

func TestRegistry_Ensure(t *testing.T) {
	t.Run("없는 이름은 기본값으로 생성", func(t *testing.T) {
		registry := NewRegistry()

		entry := registry.Ensure("eth0")

		require.NotNil(t, entry)
		assert.Equal(t, IfaceTypeDHCP, entry.IfaceType)
		assert.Empty(t, entry.Families)
		assert.False(t, entry.Auto)
		assert.False(t, entry.Hotplug)
	})

	t.Run("이미 있는 이름은 같은 엔트리를 반환", func(t *testing.T) {
		registry := NewRegistry()
		first := registry.Ensure("eth0")
		first.Auto = true
		first.IfaceType = IfaceTypeStatic

		second := registry.Ensure("eth0")

		assert.Same(t, first, second)
		assert.True(t, second.Auto)
		assert.Equal(t, IfaceTypeStatic, second.IfaceType)
	})
}
