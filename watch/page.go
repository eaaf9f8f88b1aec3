// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package watch

import (
	"net/http"
	"strings"
)

// Page returns a handler serving a minimal live trace page that connects
// back to the server's websocket endpoint at wsPath.
//
func Page(wsPath string) http.Handler {
	page := strings.Replace(tracePage, "{{WSPATH}}", wsPath, 1)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	})
}

const tracePage = `<!DOCTYPE html>
<html>
<head>
<title>ringtb live trace</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; margin: 2em; }
table { border-collapse: collapse; }
td, th { padding: 2px 12px; border-bottom: 1px solid #333; text-align: right; }
.w { color: #fa0; }
.r { color: #0af; }
</style>
</head>
<body>
<h3>ringtb live trace</h3>
<table id="trace">
<tr><th>tick</th><th>op</th><th>wdata</th><th>rdata</th></tr>
</table>
<script>
var proto = location.protocol === "https:" ? "wss://" : "ws://";
var ws = new WebSocket(proto + location.host + "{{WSPATH}}");
var table = document.getElementById("trace");
ws.onmessage = function (ev) {
	var f = JSON.parse(ev.data);
	var op = f.we && f.re ? "w+r" : f.we ? "w" : f.re ? "r" : "-";
	var row = table.insertRow(1);
	row.className = f.we ? "w" : f.re ? "r" : "";
	row.insertCell(0).textContent = f.tick;
	row.insertCell(1).textContent = op;
	row.insertCell(2).textContent = f.we ? "0x" + f.wdata.toString(16) : "";
	row.insertCell(3).textContent = "0x" + f.rdata.toString(16);
	while (table.rows.length > 33) {
		table.deleteRow(-1);
	}
};
</script>
</body>
</html>
`
