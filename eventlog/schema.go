// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

// amounts are 32-byte big-endian blobs, NULL when the kind has no such field
const eventTableSchema = `
create table if not exists event (
	seq integer primary key,
	kind text not null,
	account blob(20) not null,
	previous blob(20) not null,
	amount blob(32),
	total blob(32),
	oldValue blob(32),
	newValue blob(32),
	timestamp integer not null
);

CREATE INDEX if not exists accountIndex on event(account);
CREATE INDEX if not exists kindIndex on event(kind);
CREATE INDEX if not exists timestampIndex on event(timestamp);
`
