package pacman

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cm "github.com/archops/pacrescue/pacrescue/commandmanager"
)

type MockCommandManager struct {
	mock.Mock
}

func (m *MockCommandManager) Run(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	args := m.Called(ctx, config)
	return args.Get(0).(cm.CommandResult), args.Error(1)
}

func TestRefreshAndUpgradeInvokesPacman(t *testing.T) {
	manager := &MockCommandManager{}
	manager.On("Run", mock.Anything, cm.CommandConfig{
		Command: "pacman",
		Args:    []string{"-Syyu", "--noconfirm"},
	}).Return(cm.CommandResult{ExitCode: 0}, nil)

	cli := &PacmanCLI{CommandManager: manager}
	require.NoError(t, cli.RefreshAndUpgrade(context.Background()))
	manager.AssertExpectations(t)
}

func TestRefreshAndUpgradeSurfacesStderr(t *testing.T) {
	manager := &MockCommandManager{}
	manager.On("Run", mock.Anything, mock.Anything).Return(cm.CommandResult{
		ExitCode: 1,
		STDERR:   "error: failed retrieving file 'core.db'\n",
	}, errors.New("exit status 1"))

	cli := &PacmanCLI{CommandManager: manager}
	err := cli.RefreshAndUpgrade(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed retrieving file 'core.db'")
	assert.Contains(t, err.Error(), "pacman -Syyu")
}

func TestRefreshAndUpgradeNonZeroExitWithoutError(t *testing.T) {
	manager := &MockCommandManager{}
	manager.On("Run", mock.Anything, mock.Anything).Return(cm.CommandResult{ExitCode: 2}, nil)

	cli := &PacmanCLI{CommandManager: manager}
	err := cli.RefreshAndUpgrade(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 2")
}

func TestKeyringInitInvokesPacmanKey(t *testing.T) {
	manager := &MockCommandManager{}
	manager.On("Run", mock.Anything, cm.CommandConfig{
		Command: "pacman-key",
		Args:    []string{"--init"},
	}).Return(cm.CommandResult{ExitCode: 0}, nil)

	key := &PacmanKeyCLI{CommandManager: manager}
	require.NoError(t, key.Init(context.Background()))
	manager.AssertExpectations(t)
}

func TestKeyringPopulateDefaultKeyring(t *testing.T) {
	manager := &MockCommandManager{}
	manager.On("Run", mock.Anything, cm.CommandConfig{
		Command: "pacman-key",
		Args:    []string{"--populate", "archlinux"},
	}).Return(cm.CommandResult{ExitCode: 0}, nil)

	key := &PacmanKeyCLI{CommandManager: manager}
	require.NoError(t, key.Populate(context.Background()))
	manager.AssertExpectations(t)
}

func TestKeyringPopulateCustomKeyrings(t *testing.T) {
	manager := &MockCommandManager{}
	manager.On("Run", mock.Anything, cm.CommandConfig{
		Command: "pacman-key",
		Args:    []string{"--populate", "archlinux", "archlinuxarm"},
	}).Return(cm.CommandResult{ExitCode: 0}, nil)

	key := &PacmanKeyCLI{
		CommandManager: manager,
		Keyrings:       []string{"archlinux", "archlinuxarm"},
	}
	require.NoError(t, key.Populate(context.Background()))
	manager.AssertExpectations(t)
}

func TestKeyringInitFailureIsVerbatim(t *testing.T) {
	manager := &MockCommandManager{}
	manager.On("Run", mock.Anything, mock.Anything).Return(cm.CommandResult{
		ExitCode: 1,
		STDERR:   "gpg: failed to create keyring\n",
	}, errors.New("exit status 1"))

	key := &PacmanKeyCLI{CommandManager: manager}
	err := key.Init(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpg: failed to create keyring")
}
