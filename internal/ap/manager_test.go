package ap

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokomo/apctl/internal/netman"
	"github.com/sokomo/apctl/internal/types"
)

func newTestManager(mock *mockExecutor) *Manager {
	nm := netman.NewWithExecutor(mock)
	return NewManager(nm, NewChannelSelector(nm, 0))
}

func testAPConfig() types.APConfig {
	return types.APConfig{
		SSID:      "My Home AP",
		Password:  "supersecret",
		Interface: "wlan0",
		Band:      types.Band24,
		Channel:   6,
		IPCIDR:    "192.168.12.1/24",
	}
}

func findCall(mock *mockExecutor, substr string) string {
	for _, c := range mock.calls {
		if strings.Contains(c, substr) {
			return c
		}
	}
	return ""
}

func TestCreate_NewProfile(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)

	err := m.Create(&Snapshot{}, testAPConfig(), CreateOptions{})
	require.NoError(t, err)

	add := findCall(mock, "connection add")
	require.NotEmpty(t, add)
	assert.Contains(t, add, "con-name My_Home_AP-AP")
	assert.Contains(t, add, "ifname wlan0")
	assert.Contains(t, add, "802-11-wireless.mode ap")
	assert.Contains(t, add, "802-11-wireless.band bg")
	assert.Contains(t, add, "802-11-wireless.channel 6")
	assert.Contains(t, add, "ipv4.method shared")
	assert.Contains(t, add, "ipv4.addresses 192.168.12.1/24")
	assert.Contains(t, add, "ipv6.method disabled")
	assert.Contains(t, add, "wifi-sec.key-mgmt wpa-psk")
	assert.Contains(t, add, "wifi-sec.proto rsn")
	assert.Contains(t, add, "wifi-sec.pairwise ccmp")
	assert.Contains(t, add, "wifi-sec.group ccmp")
	assert.Contains(t, add, "802-11-wireless-security.wps-method disabled")
	assert.Contains(t, add, "autoconnect no")

	assert.Equal(t, "nmcli connection up My_Home_AP-AP", findCall(mock, "connection up"))
}

func TestCreate_5GHzBand(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)

	cfg := testAPConfig()
	cfg.Band = types.Band5
	cfg.Channel = 149

	require.NoError(t, m.Create(&Snapshot{}, cfg, CreateOptions{}))
	add := findCall(mock, "connection add")
	assert.Contains(t, add, "802-11-wireless.band a")
	assert.Contains(t, add, "802-11-wireless.channel 149")
}

func TestCreate_ExistingDeclinedAborts(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)
	m.Confirm = func(string) bool { return false }

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "My_Home_AP-AP", Type: "802-11-wireless", Active: false},
	}}

	err := m.Create(snap, testAPConfig(), CreateOptions{})
	assert.ErrorIs(t, err, ErrAborted)
	// declining must not mutate anything
	assert.Empty(t, mock.calls)
}

func TestCreate_ExistingConfirmedReplaces(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)
	m.Confirm = func(string) bool { return true }

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "My_Home_AP-AP", Type: "802-11-wireless", Device: "wlan0", Active: true},
	}}

	require.NoError(t, m.Create(snap, testAPConfig(), CreateOptions{}))

	assert.Equal(t, "nmcli connection down My_Home_AP-AP", mock.calls[0])
	assert.Equal(t, "nmcli connection delete My_Home_AP-AP", mock.calls[1])
	assert.NotEmpty(t, findCall(mock, "connection add"))
	assert.NotEmpty(t, findCall(mock, "connection up"))
}

func TestCreate_ExistingReplaceFlagSkipsPrompt(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)
	m.Confirm = func(string) bool {
		t.Fatal("prompt must not be shown with --replace")
		return false
	}

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "My_Home_AP-AP", Type: "802-11-wireless", Active: false},
	}}

	require.NoError(t, m.Create(snap, testAPConfig(), CreateOptions{Replace: true}))
	assert.Equal(t, "nmcli connection delete My_Home_AP-AP", mock.calls[0])
}

func TestCreate_ExistingKeepRestarts(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "My_Home_AP-AP", Type: "802-11-wireless", Active: true},
	}}

	require.NoError(t, m.Create(snap, testAPConfig(), CreateOptions{Keep: true}))

	// keep mode restarts the existing profile without recreating it
	assert.Empty(t, findCall(mock, "connection add"))
	assert.Equal(t, "nmcli connection down My_Home_AP-AP", mock.calls[0])
	assert.Equal(t, "nmcli connection up My_Home_AP-AP", mock.calls[1])
}

func TestCreate_ActivationFailure(t *testing.T) {
	mock := newMockExecutor()
	mock.errors["nmcli connection up My_Home_AP-AP"] = errors.New("Error: Connection activation failed")
	m := newTestManager(mock)

	err := m.Create(&Snapshot{}, testAPConfig(), CreateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activation failed")
}

func TestUpdateBand_PreservesOtherSettings(t *testing.T) {
	mock := newMockExecutor()
	mock.setResponse("nmcli -t --show-secrets connection show Home-AP",
		"connection.interface-name:wlan0\n"+
			"802-11-wireless.ssid:Home\n"+
			"802-11-wireless-security.psk:secretpass\n")
	m := newTestManager(mock)

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "Home-AP", Type: "802-11-wireless", Device: "wlan0", Active: false},
	}}

	require.NoError(t, m.UpdateBand(snap, "Home-AP", types.Band5, 149, false))

	modify := findCall(mock, "connection modify")
	require.NotEmpty(t, modify)
	// only band and channel may change
	assert.Equal(t, "nmcli connection modify Home-AP 802-11-wireless.band a 802-11-wireless.channel 149", modify)
	assert.NotContains(t, modify, "ssid")
	assert.NotContains(t, modify, "psk")

	// inactive profile: no stop, no restart
	assert.Empty(t, findCall(mock, "connection down"))
	assert.Empty(t, findCall(mock, "connection up"))
}

func TestUpdateBand_RestartsActiveProfile(t *testing.T) {
	mock := newMockExecutor()
	mock.setResponse("nmcli -t --show-secrets connection show Home-AP",
		"connection.interface-name:wlan0\n802-11-wireless.ssid:Home\n")
	m := newTestManager(mock)

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "Home-AP", Type: "802-11-wireless", Device: "wlan0", Active: true},
	}}

	require.NoError(t, m.UpdateBand(snap, "Home-AP", types.Band24, 11, false))

	require.Len(t, mock.calls, 4)
	assert.Contains(t, mock.calls[1], "connection down Home-AP")
	assert.Contains(t, mock.calls[2], "connection modify Home-AP")
	assert.Contains(t, mock.calls[3], "connection up Home-AP")
}

func TestUpdateBand_RestartFailureIsDistinct(t *testing.T) {
	mock := newMockExecutor()
	mock.setResponse("nmcli -t --show-secrets connection show Home-AP",
		"connection.interface-name:wlan0\n802-11-wireless.ssid:Home\n")
	mock.errors["nmcli connection up Home-AP"] = errors.New("activation failed")
	m := newTestManager(mock)

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "Home-AP", Type: "802-11-wireless", Device: "wlan0", Active: true},
	}}

	err := m.UpdateBand(snap, "Home-AP", types.Band24, 11, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restart failed")
	assert.NotContains(t, err.Error(), "band update failed")
}

func TestUpdateBand_ModifyFailure(t *testing.T) {
	mock := newMockExecutor()
	mock.setResponse("nmcli -t --show-secrets connection show Home-AP",
		"connection.interface-name:wlan0\n802-11-wireless.ssid:Home\n")
	mock.errors["nmcli connection modify Home-AP 802-11-wireless.band bg 802-11-wireless.channel 11"] = errors.New("unknown property")
	m := newTestManager(mock)

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "Home-AP", Type: "802-11-wireless", Active: false},
	}}

	err := m.UpdateBand(snap, "Home-AP", types.Band24, 11, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "band update failed")
}

func TestUpdateBand_AutoSelectExcludesOwnSSID(t *testing.T) {
	mock := newMockExecutor()
	mock.setResponse("nmcli -t --show-secrets connection show Home-AP",
		"connection.interface-name:wlan0\n802-11-wireless.ssid:Home\n")
	// the only visible network is the AP itself, on channel 6
	mock.setResponse("nmcli -t -f SSID,CHAN,SIGNAL device wifi list ifname wlan0", "Home:6:90\n")
	m := newTestManager(mock)

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "Home-AP", Type: "802-11-wireless", Device: "wlan0", Active: false},
	}}

	require.NoError(t, m.UpdateBand(snap, "Home-AP", types.Band24, 0, true))
	assert.Contains(t, findCall(mock, "connection modify"), "802-11-wireless.channel 6")
}

func TestUpdateBand_UnknownProfile(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)

	err := m.UpdateBand(&Snapshot{}, "ghost-AP", types.Band24, 6, false)
	require.Error(t, err)
	assert.Empty(t, mock.calls)
}

func TestStart_NoNamePicksFirstAlphabetically(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "zeta-AP", Type: "802-11-wireless"},
		{Name: "alpha-AP", Type: "802-11-wireless"},
		{Name: "office", Type: "802-11-wireless"},
	}}

	require.NoError(t, m.Start(snap, ""))
	assert.Equal(t, []string{"nmcli connection up alpha-AP"}, mock.calls)
}

func TestStart_NoProfiles(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)

	err := m.Start(&Snapshot{}, "")
	assert.ErrorIs(t, err, ErrNoAPProfile)
}

func TestStop_NoNameStopsAllActive(t *testing.T) {
	mock := newMockExecutor()
	mock.errors["nmcli connection down beta-AP"] = errors.New("not active")
	m := newTestManager(mock)

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "alpha-AP", Type: "802-11-wireless", Active: true},
		{Name: "beta-AP", Type: "802-11-wireless", Active: true},
		{Name: "gamma-AP", Type: "802-11-wireless", Active: false},
	}}

	// the beta-AP failure is a warning, not an abort
	require.NoError(t, m.Stop(snap, ""))
	assert.Equal(t, []string{
		"nmcli connection down alpha-AP",
		"nmcli connection down beta-AP",
	}, mock.calls)
}

func TestStop_Named(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)

	require.NoError(t, m.Stop(&Snapshot{}, "Home-AP"))
	assert.Equal(t, []string{"nmcli connection down Home-AP"}, mock.calls)
}

func TestRestart_InactiveSkipsStop(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "Home-AP", Type: "802-11-wireless", Active: false},
	}}

	require.NoError(t, m.Restart(snap, "Home-AP"))
	assert.Equal(t, []string{"nmcli connection up Home-AP"}, mock.calls)
}

func TestDelete(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "Home-AP", Type: "802-11-wireless", Active: true},
	}}

	require.NoError(t, m.Delete(snap, "Home-AP"))
	assert.Equal(t, []string{
		"nmcli connection down Home-AP",
		"nmcli connection delete Home-AP",
	}, mock.calls)
}

func TestDelete_Unknown(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)

	err := m.Delete(&Snapshot{}, "ghost-AP")
	require.Error(t, err)
	assert.Empty(t, mock.calls)
}

func TestStatus(t *testing.T) {
	mock := newMockExecutor()
	mock.setResponse("nmcli -t --show-secrets connection show Home-AP",
		"802-11-wireless.ssid:Home\n"+
			"802-11-wireless.band:bg\n"+
			"802-11-wireless.channel:6\n"+
			"connection.interface-name:wlan0\n"+
			"ipv4.addresses:192.168.12.1/24\n")
	m := newTestManager(mock)

	snap := &Snapshot{Profiles: []types.Profile{
		{Name: "Home-AP", Type: "802-11-wireless", Device: "wlan0", Active: true},
	}}

	st, err := m.Status(snap, "")
	require.NoError(t, err)
	assert.Equal(t, "Home-AP", st.Name)
	assert.Equal(t, "Home", st.SSID)
	assert.Equal(t, "bg", st.Band)
	assert.Equal(t, "6", st.Channel)
	assert.Equal(t, "wlan0", st.Device)
	assert.Equal(t, "192.168.12.1/24", st.IPv4)
	assert.True(t, st.Active)
}

func TestReset(t *testing.T) {
	mock := newMockExecutor()
	mock.errors["nmcli connection delete stubborn-AP"] = errors.New("permission denied")
	m := newTestManager(mock)

	snap := &Snapshot{
		Interfaces: []types.Interface{
			wifiIface("wlan0"),
			{Name: "p2p-dev-wlan0", Type: "wifi-p2p", Managed: true, P2P: true},
		},
		Profiles: []types.Profile{
			{Name: "Home-AP", Type: "802-11-wireless", Active: true},
			{Name: "stubborn-AP", Type: "802-11-wireless", Active: false},
			{Name: "office", Type: "802-11-wireless", Active: true},
		},
	}

	// the stubborn profile's failure is a warning; reset still succeeds
	require.NoError(t, m.Reset(snap))

	assert.NotEmpty(t, findCall(mock, "connection down Home-AP"))
	assert.NotEmpty(t, findCall(mock, "connection delete Home-AP"))
	assert.NotEmpty(t, findCall(mock, "connection delete stubborn-AP"))
	// non-AP profiles are left alone
	assert.Empty(t, findCall(mock, "delete office"))

	assert.NotEmpty(t, findCall(mock, "radio wifi on"))
	assert.NotEmpty(t, findCall(mock, "device set wlan0 managed yes"))
	assert.NotEmpty(t, findCall(mock, "wifi rescan ifname wlan0"))
	// P2P interfaces are not touched
	assert.Empty(t, findCall(mock, "device set p2p-dev-wlan0"))
}

func TestReset_IdempotentOnEmptySystem(t *testing.T) {
	mock := newMockExecutor()
	m := newTestManager(mock)

	snap := &Snapshot{Interfaces: []types.Interface{wifiIface("wlan0")}}
	require.NoError(t, m.Reset(snap))
	require.NoError(t, m.Reset(snap))
}

func TestTakeSnapshot(t *testing.T) {
	mock := newMockExecutor()
	mock.setResponse("nmcli -t -f DEVICE,TYPE,STATE device status", "wlan0:wifi:disconnected\n")
	mock.setResponse("nmcli -t -f NAME,TYPE,DEVICE,ACTIVE connection show", "Home-AP:802-11-wireless:wlan0:yes\n")

	snap, err := TakeSnapshot(netman.NewWithExecutor(mock))
	require.NoError(t, err)
	require.Len(t, snap.Interfaces, 1)
	require.Len(t, snap.Profiles, 1)
	assert.NotNil(t, snap.FindInterface("wlan0"))
	assert.Nil(t, snap.FindInterface("wlan9"))
	assert.NotNil(t, snap.FindProfile("Home-AP"))
	require.Len(t, snap.APProfiles(), 1)
}
