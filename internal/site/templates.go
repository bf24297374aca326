package site

// pageTemplate is the Go html/template for a whitepaper page.
const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}"{{if .Theme}} data-theme="{{.Theme}}"{{end}}>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Tagline}} · {{.Title}}</title>
  <link rel="stylesheet" href="{{.Assets}}style.css">
</head>
<body data-live="{{.LiveURL}}" data-lang="{{.Lang}}" data-now="{{.Labels.Now}}">
  <header class="site-header" id="site-header">
    <div class="brand">
      <span class="tagline">{{.Tagline}}</span>
      <span class="title">{{.Title}}</span>
    </div>
    <div class="header-controls">
      <label class="language-selector">
        <span class="sr-only">{{.Labels.LanguageLabel}}</span>
        <select id="language-select" aria-label="{{.Labels.LanguageLabel}}">
          {{range .Languages}}<option value="{{.Code}}" data-href="{{.Href}}"{{if .Current}} selected{{end}}>{{.Flag}} {{.NativeName}}</option>
          {{end}}
        </select>
      </label>
      <button class="theme-toggle" id="theme-toggle" data-to-light="{{.Labels.ThemeToLight}}" data-to-dark="{{.Labels.ThemeToDark}}" aria-label="{{.Labels.ThemeToDark}}">
        <svg class="sun-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><circle cx="12" cy="12" r="5"/></svg>
        <svg class="moon-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/></svg>
      </button>
    </div>
    {{if .Badges}}<ul class="badges">{{range .Badges}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </header>

  <div class="layout">
    <aside class="outline-panel" id="outline-desktop" data-variant="desktop">
      <h2 class="outline-title">{{.Labels.PanelTitle}}</h2>
      <p class="outline-subtitle">{{.Labels.PanelSubtitle}}</p>
      <input type="search" class="outline-search" placeholder="{{.Labels.SearchPlaceholder}}" autocomplete="off">
      <div class="outline-progress">
        <span>{{.Labels.Progress}}</span>
        <span class="outline-percent">{{.Outline.Progress}}%</span>
        <div class="progress-track"><div class="progress-bar" style="width: {{.Outline.Progress}}%"></div></div>
      </div>
      <ol class="outline-entries">
        {{range .Outline.Entries}}<li class="outline-entry level-{{.Level}}{{if .Active}} active{{end}}" data-section="{{.ID}}"><a href="#{{.ID}}">{{.Title}}</a>{{if .Active}}<span class="now">{{$.Labels.Now}}</span>{{end}}</li>
        {{end}}
      </ol>
      <p class="outline-empty" hidden>{{.Labels.NoMatches}}</p>
    </aside>

    <main class="content" id="content">
      {{range .Sections}}
      <section class="wp-section{{if .Open}} open{{end}}" id="{{.ID}}" data-level="{{.Level}}">
        <button class="section-toggle" data-section="{{.ID}}" aria-expanded="{{if .Open}}true{{else}}false{{end}}">
          <h2>{{.Title}}</h2>
        </button>
        <div class="section-body">{{.HTML}}</div>
      </section>
      {{end}}
      {{if .Footer}}<footer class="site-footer">{{.Footer}}</footer>{{end}}
    </main>
  </div>

  <button class="sheet-trigger" id="sheet-trigger" aria-label="{{.Labels.OpenOutline}}">{{.Labels.PanelTitle}} · <span class="outline-percent">{{.Outline.Progress}}%</span></button>
  <div class="outline-sheet" id="outline-mobile" data-variant="mobile" hidden>
    <div class="sheet-header">
      <h2 class="outline-title">{{.Labels.PanelTitle}}</h2>
      <button class="sheet-close" id="sheet-close" aria-label="Close">&times;</button>
    </div>
    <input type="search" class="outline-search" placeholder="{{.Labels.SearchPlaceholder}}" autocomplete="off">
    <ol class="outline-entries"></ol>
    <p class="outline-empty" hidden>{{.Labels.NoMatches}}</p>
  </div>

  <button class="scroll-top" id="scroll-top" aria-label="{{.Labels.ScrollToTop}}" hidden>&uarr;</button>
  <script src="{{.Assets}}app.js"></script>
</body>
</html>`

// cssContent is the stylesheet of the whitepaper page.
const cssContent = `:root {
  --bg: #ffffff;
  --bg-secondary: #f8f9fa;
  --text: #212529;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --accent-light: #e7f5ff;
  --header-height: 80px;
  --panel-width: 300px;
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.1);
}

[data-theme="dark"] {
  --bg: #1a1b26;
  --bg-secondary: #1f2030;
  --text: #c0caf5;
  --text-muted: #565f89;
  --border: #292e42;
  --accent: #7aa2f7;
  --accent-light: #1a1b2e;
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.4);
}

@media (prefers-color-scheme: dark) {
  :root:not([data-theme="light"]) {
    --bg: #1a1b26;
    --bg-secondary: #1f2030;
    --text: #c0caf5;
    --text-muted: #565f89;
    --border: #292e42;
    --accent: #7aa2f7;
    --accent-light: #1a1b2e;
  }
}

* { box-sizing: border-box; }
body { margin: 0; background: var(--bg); color: var(--text); font: 16px/1.6 system-ui, sans-serif; }
.sr-only { position: absolute; width: 1px; height: 1px; overflow: hidden; clip: rect(0 0 0 0); }

.site-header {
  position: sticky; top: 0; z-index: 20; min-height: var(--header-height);
  display: flex; flex-wrap: wrap; align-items: center; justify-content: space-between;
  padding: 12px 24px; background: var(--bg); border-bottom: 1px solid var(--border);
}
.brand .tagline { font-weight: 700; color: var(--accent); margin-right: 8px; }
.header-controls { display: flex; gap: 8px; align-items: center; }
.badges { display: flex; gap: 8px; list-style: none; margin: 4px 0 0; padding: 0; width: 100%; font-size: 12px; color: var(--text-muted); }
.theme-toggle { background: none; border: 1px solid var(--border); border-radius: 6px; color: var(--text); cursor: pointer; padding: 4px; }
.moon-icon { display: none; }
[data-theme="dark"] .sun-icon { display: none; }
[data-theme="dark"] .moon-icon { display: inline; }

.layout { display: grid; grid-template-columns: var(--panel-width) 1fr; gap: 32px; max-width: 1200px; margin: 0 auto; padding: 24px; }
.outline-panel { position: sticky; top: calc(var(--header-height) + 16px); align-self: start; }
.outline-subtitle { color: var(--text-muted); font-size: 14px; }
.outline-search { width: 100%; padding: 6px 10px; border: 1px solid var(--border); border-radius: 6px; background: var(--bg-secondary); color: var(--text); }
.outline-progress { margin: 12px 0; font-size: 13px; display: flex; flex-wrap: wrap; justify-content: space-between; }
.progress-track { width: 100%; height: 4px; background: var(--border); border-radius: 2px; }
.progress-bar { height: 100%; background: var(--accent); border-radius: 2px; transition: width 0.2s; }
.outline-entries { list-style: none; padding: 0; margin: 0; }
.outline-entry { display: flex; justify-content: space-between; padding: 4px 8px; border-radius: 6px; }
.outline-entry a { color: inherit; text-decoration: none; }
.outline-entry.active { background: var(--accent-light); color: var(--accent); }
.outline-entry .now { font-size: 11px; text-transform: uppercase; }

.wp-section { border: 1px solid var(--border); border-radius: 10px; margin-bottom: 16px; transition: box-shadow 0.3s, transform 0.1s; }
.section-toggle { width: 100%; text-align: left; background: none; border: none; color: inherit; cursor: pointer; padding: 12px 16px; }
.section-toggle h2 { margin: 0; font-size: 20px; }
.section-body { display: none; padding: 0 16px 16px; }
.wp-section.open .section-body { display: block; }
.wp-section.highlighted { box-shadow: 0 0 0 3px var(--accent); }
.wp-section.highlight-active { transform: scale(1.005); }
.section-body pre { overflow-x: auto; padding: 12px; border-radius: 6px; }
.section-body table { border-collapse: collapse; }
.section-body th, .section-body td { border: 1px solid var(--border); padding: 4px 8px; }

.sheet-trigger { display: none; position: fixed; bottom: 16px; left: 16px; z-index: 30; padding: 8px 14px; border-radius: 20px; border: 1px solid var(--border); background: var(--bg); color: var(--text); box-shadow: var(--shadow-lg); }
.outline-sheet { position: fixed; left: 0; right: 0; bottom: 0; max-height: 70vh; overflow-y: auto; z-index: 40; padding: 16px; background: var(--bg); border-top: 1px solid var(--border); box-shadow: var(--shadow-lg); }
.sheet-header { display: flex; justify-content: space-between; align-items: center; }
.sheet-close { background: none; border: none; color: inherit; font-size: 24px; cursor: pointer; }
.scroll-top { position: fixed; right: 16px; bottom: 16px; z-index: 30; width: 40px; height: 40px; border-radius: 50%; border: 1px solid var(--border); background: var(--bg); color: var(--text); cursor: pointer; }
.site-footer { color: var(--text-muted); font-size: 13px; padding: 24px 0; }

@media (max-width: 900px) {
  .layout { grid-template-columns: 1fr; }
  .outline-panel { display: none; }
  .sheet-trigger { display: block; }
}
`

// jsContent is the browser side of the live session. It reports layout and
// scroll to the server and applies the commands it receives. Without a live
// URL it falls back to local toggling and anchor links.
const jsContent = `(function() {
  "use strict";

  var html = document.documentElement;
  var body = document.body;
  var liveURL = body.getAttribute("data-live");
  var nowLabel = body.getAttribute("data-now") || "Now";
  var socket = null;

  function send(msg) {
    if (socket && socket.readyState === 1) socket.send(JSON.stringify(msg));
  }

  function sections() { return Array.prototype.slice.call(document.querySelectorAll(".wp-section")); }

  function layout() {
    var tops = {};
    sections().forEach(function(el) {
      tops[el.id] = el.getBoundingClientRect().top + window.scrollY;
    });
    return {
      type: "layout",
      scroll_y: window.scrollY,
      viewport_height: window.innerHeight,
      document_height: document.documentElement.scrollHeight,
      tops: tops
    };
  }

  var scrollQueued = false;
  function onScroll() {
    if (scrollQueued) return;
    scrollQueued = true;
    requestAnimationFrame(function() {
      scrollQueued = false;
      send({ type: "scroll", scroll_y: window.scrollY, document_height: document.documentElement.scrollHeight });
      if (!socket) document.getElementById("scroll-top").hidden = window.scrollY <= 360;
    });
  }

  function reportLayout() { requestAnimationFrame(function() { send(layout()); }); }

  // ===== Theme =====
  var themeToggle = document.getElementById("theme-toggle");
  function currentTheme() {
    var t = html.getAttribute("data-theme");
    if (t) return t;
    return window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches ? "dark" : "light";
  }
  function applyTheme(theme) {
    html.setAttribute("data-theme", theme);
    try { localStorage.setItem("pq-priv-theme", theme); } catch (e) {}
    themeToggle.setAttribute("aria-label", theme === "dark" ? themeToggle.dataset.toLight : themeToggle.dataset.toDark);
  }
  if (!html.getAttribute("data-theme")) {
    try { var stored = localStorage.getItem("pq-priv-theme"); if (stored) applyTheme(stored); } catch (e) {}
  }
  themeToggle.addEventListener("click", function() {
    var next = currentTheme() === "dark" ? "light" : "dark";
    applyTheme(next);
    savePrefs({ theme: next });
  });

  function savePrefs(p) {
    if (!liveURL) return;
    fetch("/api/prefs", { method: "PUT", headers: { "Content-Type": "application/json" }, body: JSON.stringify(p), credentials: "same-origin" }).catch(function() {});
  }

  // ===== Language =====
  document.getElementById("language-select").addEventListener("change", function(e) {
    var opt = e.target.options[e.target.selectedIndex];
    savePrefs({ locale: opt.value });
    window.location.href = opt.getAttribute("data-href");
  });

  // ===== Outline rendering =====
  function renderOutline(root, state) {
    var list = root.querySelector(".outline-entries");
    list.innerHTML = "";
    state.entries.forEach(function(e) {
      var li = document.createElement("li");
      li.className = "outline-entry level-" + e.level + (e.active ? " active" : "");
      li.setAttribute("data-section", e.id);
      var a = document.createElement("a");
      a.href = "#" + e.id;
      a.textContent = e.title;
      li.appendChild(a);
      if (e.active) {
        var now = document.createElement("span");
        now.className = "now";
        now.textContent = nowLabel;
        li.appendChild(now);
      }
      list.appendChild(li);
    });
    root.querySelector(".outline-empty").hidden = !state.no_matches;
    var search = root.querySelector(".outline-search");
    if (document.activeElement !== search && search.value !== state.query) search.value = state.query;
  }

  function applyState(s) {
    renderOutline(document.getElementById("outline-desktop"), s.desktop);
    renderOutline(document.getElementById("outline-mobile"), s.mobile);
    document.querySelectorAll(".outline-percent").forEach(function(el) { el.textContent = s.progress + "%"; });
    document.querySelectorAll(".progress-bar").forEach(function(el) { el.style.width = s.progress + "%"; });
    document.getElementById("outline-mobile").hidden = !s.mobile.open;
    document.getElementById("scroll-top").hidden = !s.scroll_top_visible;
  }

  function setPanel(id, open) {
    var el = document.getElementById(id);
    if (!el) return;
    el.classList.toggle("open", open);
    var btn = el.querySelector(".section-toggle");
    if (btn) btn.setAttribute("aria-expanded", open ? "true" : "false");
  }

  function setHighlight(id, highlighted, active) {
    var el = document.getElementById(id);
    if (!el) return;
    el.classList.toggle("highlighted", highlighted);
    el.classList.toggle("highlight-active", active);
  }

  // ===== Host events =====
  document.querySelectorAll("[data-variant]").forEach(function(root) {
    var variant = root.getAttribute("data-variant");
    root.querySelector(".outline-search").addEventListener("input", function(e) {
      send({ type: "query", variant: variant, query: e.target.value });
    });
    root.querySelector(".outline-entries").addEventListener("click", function(e) {
      var li = e.target.closest(".outline-entry");
      if (!li || !socket) return;
      e.preventDefault();
      send({ type: "jump", variant: variant, section_id: li.getAttribute("data-section") });
    });
  });

  document.querySelectorAll(".section-toggle").forEach(function(btn) {
    btn.addEventListener("click", function() {
      var id = btn.getAttribute("data-section");
      if (socket) {
        send({ type: "toggle", section_id: id });
      } else {
        setPanel(id, !document.getElementById(id).classList.contains("open"));
      }
    });
  });

  document.getElementById("sheet-trigger").addEventListener("click", function() {
    if (socket) send({ type: "sheet", open: true }); else document.getElementById("outline-mobile").hidden = false;
  });
  document.getElementById("sheet-close").addEventListener("click", function() {
    if (socket) send({ type: "sheet", open: false }); else document.getElementById("outline-mobile").hidden = true;
  });
  document.getElementById("scroll-top").addEventListener("click", function() {
    if (socket) send({ type: "scroll_top" }); else window.scrollTo({ top: 0, behavior: "smooth" });
  });

  window.addEventListener("scroll", onScroll, { passive: true });
  window.addEventListener("resize", reportLayout);

  // ===== Live session =====
  function connect() {
    var proto = location.protocol === "https:" ? "wss:" : "ws:";
    var ws = new WebSocket(proto + "//" + location.host + liveURL);
    ws.onopen = function() { socket = ws; send(layout()); };
    ws.onmessage = function(ev) {
      var msg;
      try { msg = JSON.parse(ev.data); } catch (e) { return; }
      switch (msg.type) {
        case "state": applyState(msg); break;
        case "panel": setPanel(msg.section_id, msg.open); reportLayout(); break;
        case "scroll_to": window.scrollTo({ top: msg.top, behavior: msg.behavior || "smooth" }); break;
        case "highlight": setHighlight(msg.section_id, msg.highlighted, msg.active); break;
        case "error": console.warn("session:", msg.content); break;
      }
    };
    ws.onclose = function() {
      socket = null;
      setTimeout(connect, 2000);
    };
  }

  if (liveURL) connect();
})();
`
