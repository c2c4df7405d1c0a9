// Package agentfolio reconstructs the portfolios of autonomous trading agents
// from their position logs and market prices.
//
// For each agent it produces:
//   - an asset history: the total value (cash plus holdings at market price)
//     over time, starting at the configured initial cash;
//   - trade markers: the buys and sells with execution prices inferred from
//     cash movements, fills at the same time on the same symbol merged.
//
// A buy-and-hold baseline, and for daily markets an index benchmark, give a
// reference to compare agents against.
//
// Three markets are supported: US daily, US intraday (5 minutes bars) and
// A-shares daily. They differ by timestamps, currency, and the policy applied
// when a price is missing. Documents are read from a data folder (DirSource)
// or a remote server (HTTPSource).
//
// This package is the foundation of the `agf` command-line tool.
package agentfolio
