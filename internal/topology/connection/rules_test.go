/*
 * SPDX-FileCopyrightText: Copyright (c) 2026 Rackforge, Inc. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package connection

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackforge/topology/pkg/common/errors"
	"github.com/rackforge/topology/pkg/common/porttypes"
)

func port(kind porttypes.ComponentKind) PortView {
	return PortView{ID: uuid.New(), Kind: kind}
}

func connectedPort(kind porttypes.ComponentKind) PortView {
	p := port(kind)
	peer := uuid.New()
	p.PeerID = &peer
	return p
}

func TestCheckConnectPairing(t *testing.T) {
	testCases := map[string]struct {
		a        porttypes.ComponentKind
		b        porttypes.ComponentKind
		mismatch bool
	}{
		"console port to console server port": {
			a: porttypes.ComponentKindConsolePort,
			b: porttypes.ComponentKindConsoleServerPort,
		},
		"console server port to console port": {
			a: porttypes.ComponentKindConsoleServerPort,
			b: porttypes.ComponentKindConsolePort,
		},
		"power port to power outlet": {
			a: porttypes.ComponentKindPowerPort,
			b: porttypes.ComponentKindPowerOutlet,
		},
		"interface to interface": {
			a: porttypes.ComponentKindInterface,
			b: porttypes.ComponentKindInterface,
		},
		"console port to power outlet": {
			a:        porttypes.ComponentKindConsolePort,
			b:        porttypes.ComponentKindPowerOutlet,
			mismatch: true,
		},
		"interface to console server port": {
			a:        porttypes.ComponentKindInterface,
			b:        porttypes.ComponentKindConsoleServerPort,
			mismatch: true,
		},
		"two console ports": {
			a:        porttypes.ComponentKindConsolePort,
			b:        porttypes.ComponentKindConsolePort,
			mismatch: true,
		},
		"two power outlets": {
			a:        porttypes.ComponentKindPowerOutlet,
			b:        porttypes.ComponentKindPowerOutlet,
			mismatch: true,
		},
		"device bay is not a port": {
			a:        porttypes.ComponentKindDeviceBay,
			b:        porttypes.ComponentKindDeviceBay,
			mismatch: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := CheckConnect(port(tc.a), port(tc.b))
			if !tc.mismatch {
				assert.NoError(t, err)
				return
			}

			var tm *errors.TypeMismatchError
			require.ErrorAs(t, err, &tm)
		})
	}
}

func TestCheckConnectSelf(t *testing.T) {
	p := port(porttypes.ComponentKindInterface)

	var tm *errors.TypeMismatchError
	require.ErrorAs(t, CheckConnect(p, p), &tm)
}

func TestCheckConnectDegreeOne(t *testing.T) {
	free := port(porttypes.ComponentKindInterface)
	busy := connectedPort(porttypes.ComponentKindInterface)

	var ac *errors.AlreadyConnectedError

	err := CheckConnect(busy, free)
	require.ErrorAs(t, err, &ac)
	assert.Equal(t, busy.ID, ac.PortID)
	assert.Equal(t, *busy.PeerID, ac.PeerID)

	err = CheckConnect(free, busy)
	require.ErrorAs(t, err, &ac)
	assert.Equal(t, busy.ID, ac.PortID)
}

func TestOrient(t *testing.T) {
	cp := port(porttypes.ComponentKindConsolePort)
	csp := port(porttypes.ComponentKindConsoleServerPort)

	dep, peer, symmetric := Orient(csp, cp)
	assert.False(t, symmetric)
	assert.Equal(t, cp.ID, dep.ID)
	assert.Equal(t, csp.ID, peer.ID)

	dep, peer, symmetric = Orient(cp, csp)
	assert.False(t, symmetric)
	assert.Equal(t, cp.ID, dep.ID)
	assert.Equal(t, csp.ID, peer.ID)

	pp := port(porttypes.ComponentKindPowerPort)
	po := port(porttypes.ComponentKindPowerOutlet)

	dep, peer, symmetric = Orient(po, pp)
	assert.False(t, symmetric)
	assert.Equal(t, pp.ID, dep.ID)
	assert.Equal(t, po.ID, peer.ID)

	ifA := port(porttypes.ComponentKindInterface)
	ifB := port(porttypes.ComponentKindInterface)

	dep, peer, symmetric = Orient(ifA, ifB)
	assert.True(t, symmetric)
	assert.Equal(t, ifA.ID, dep.ID)
	assert.Equal(t, ifB.ID, peer.ID)
}

func TestCheckDisconnect(t *testing.T) {
	busy := connectedPort(porttypes.ComponentKindConsolePort)
	assert.NoError(t, CheckDisconnect(busy))

	free := port(porttypes.ComponentKindConsolePort)

	var nc *errors.NotConnectedError
	err := CheckDisconnect(free)
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, free.ID, nc.PortID)
}
