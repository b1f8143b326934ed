// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/stakevault/stakevault/ledger/reverts"
	"github.com/stakevault/stakevault/ledger/rewards"
	"github.com/stakevault/stakevault/metrics"
)

var (
	metricOpCount        = metrics.LazyLoadCounterVec("ledger_op_count", []string{"op", "result"})
	metricTotalStaked    = metrics.LazyLoadGauge("ledger_total_staked")
	metricTotalUnclaimed = metrics.LazyLoadGauge("ledger_total_unclaimed")
)

func countOp(op string, err error) {
	result := "ok"
	if err != nil {
		if reverts.IsRevertErr(err) {
			result = "reverted"
		} else {
			result = "error"
		}
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
}

// gaugeTotals publishes the committed custody figures, in whole asset units.
// Values past int64 are left unpublished rather than truncated.
func gaugeTotals(s *session) {
	staked, unclaimed, err := s.totals.Totals()
	if err != nil {
		return
	}
	if staked.IsInt64() {
		metricTotalStaked().Set(staked.Int64())
	}
	whole := new(big.Int).Div(unclaimed, rewards.Scale)
	if whole.IsInt64() {
		metricTotalUnclaimed().Set(whole.Int64())
	}
}
