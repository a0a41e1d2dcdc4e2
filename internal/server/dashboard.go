// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>CO2 monitor</title>
<style>
body { font-family: sans-serif; text-align: center; background: #f7f7f7; }
#co2 { font-size: 72px; font-weight: bold; }
#temp { font-size: 36px; color: #555; }
#time { color: #999; }
.good { color: #5a9e2f; }
.warn { color: #c8921a; }
.bad { color: #c0392b; }
img { max-width: 100%; margin-top: 20px; }
</style>
</head>
<body>
<h1>CO2 monitor</h1>
<div id="co2">&ndash;</div>
<div id="temp">&ndash;</div>
<div id="time"></div>
<img id="plot" src="/plot.png" alt="CO2 history">
<script>
var fahrenheit = {{FAHRENHEIT}};
function show(s) {
  if (!s) return;
  var co2 = document.getElementById("co2");
  if (s.co2 !== null) {
    co2.textContent = s.co2 + " ppm";
    co2.className = s.co2 < 800 ? "good" : (s.co2 < 1200 ? "warn" : "bad");
  }
  if (s.temperature !== null) {
    var t = s.temperature;
    var unit = "°C";
    if (fahrenheit) { t = t * 9 / 5 + 32; unit = "°F"; }
    document.getElementById("temp").textContent = t.toFixed(1) + unit;
  }
  document.getElementById("time").textContent = s.time;
}
fetch("/latest").then(function(r) { return r.json(); }).then(show);
var proto = location.protocol === "https:" ? "wss://" : "ws://";
var ws = new WebSocket(proto + location.host + "/ws");
ws.onmessage = function(ev) {
  show(JSON.parse(ev.data));
  document.getElementById("plot").src = "/plot.png?t=" + Date.now();
};
</script>
</body>
</html>
`

func (s *Server) handleDashboard(c *gin.Context) {
	flag := "false"
	if s.opts.Fahrenheit {
		flag = "true"
	}
	page := strings.Replace(dashboardHTML, "{{FAHRENHEIT}}", flag, 1)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
