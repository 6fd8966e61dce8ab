package handlers

// Inline page templates, rendered through the app template registry. The
// whole public surface is three small pages plus the admin table, so they
// live here instead of a separate assets directory.

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Event}} - Tickets</title>
<style>
body { font-family: sans-serif; background: #0b2545; color: #fff; display: flex; justify-content: center; padding-top: 8vh; }
.card { background: #13315c; border-radius: 12px; padding: 2rem 2.5rem; max-width: 420px; text-align: center; }
h1 { margin-top: 0; }
.price { font-size: 1.6rem; margin: 1rem 0; }
input[type=email] { width: 100%; padding: .6rem; border-radius: 6px; border: none; margin-bottom: 1rem; box-sizing: border-box; }
button { width: 100%; padding: .7rem; border: none; border-radius: 6px; background: #ffd166; font-size: 1rem; cursor: pointer; }
button:disabled { opacity: .6; cursor: wait; }
.hint { font-size: .85rem; opacity: .7; margin-top: 1rem; }
</style>
</head>
<body>
<div class="card">
<h1>{{.Event}}</h1>
<p>{{.Date}}</p>
<p class="price">{{.Currency}} {{.Price}}</p>
<form id="buy-form">
<input id="email" type="email" placeholder="you@example.com" required>
<button id="buy-btn" type="submit">Buy ticket</button>
</form>
<p class="hint">You will be redirected to the payment page. The ticket arrives by email once the payment is approved.</p>
</div>
<script>
document.getElementById("buy-form").addEventListener("submit", async (ev) => {
	ev.preventDefault();
	const btn = document.getElementById("buy-btn");
	btn.disabled = true;
	try {
		const res = await fetch("/checkout", {
			method: "POST",
			headers: {"Content-Type": "application/json"},
			body: JSON.stringify({email: document.getElementById("email").value}),
		});
		const data = await res.json();
		if (res.ok && data.init_point) {
			window.location.href = data.init_point;
			return;
		}
		alert(data.message || "Could not start checkout. Try again.");
	} catch (err) {
		alert("Could not start checkout. Try again.");
	}
	btn.disabled = false;
});
</script>
</body>
</html>`

const successPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Payment received - {{.Event}}</title>
<style>
body { font-family: sans-serif; background: #0b2545; color: #fff; display: flex; justify-content: center; padding-top: 10vh; text-align: center; }
a { color: #ffd166; }
</style>
</head>
<body>
<div>
<h1>Thank you!</h1>
<p>Your payment is being confirmed. As soon as it is approved you will receive your ticket for {{.Event}} by email.</p>
<p><a href="/">Back to the event page</a></p>
</div>
</body>
</html>`

const loginPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Admin login</title>
<style>
body { font-family: sans-serif; background: #f4f4f5; display: flex; justify-content: center; padding-top: 10vh; }
form { background: #fff; border-radius: 8px; padding: 2rem; box-shadow: 0 1px 4px rgba(0,0,0,.15); width: 280px; }
input { width: 100%; padding: .5rem; margin-bottom: 1rem; box-sizing: border-box; }
button { width: 100%; padding: .6rem; border: none; border-radius: 4px; background: #13315c; color: #fff; cursor: pointer; }
.error { color: #b00020; margin-bottom: 1rem; }
</style>
</head>
<body>
<form method="post" action="/admin/login">
<h2>Admin</h2>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<input name="user" type="text" placeholder="Username" autocomplete="username" required>
<input name="pass" type="password" placeholder="Password" autocomplete="current-password" required>
<button type="submit">Sign in</button>
</form>
</body>
</html>`

const adminPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Tickets - {{.Event}}</title>
<style>
body { font-family: sans-serif; background: #f4f4f5; margin: 0; }
header { background: #13315c; color: #fff; padding: 1rem 2rem; display: flex; justify-content: space-between; align-items: center; }
header a { color: #ffd166; }
main { padding: 1.5rem 2rem; }
table { border-collapse: collapse; width: 100%; background: #fff; }
th, td { text-align: left; padding: .5rem .75rem; border-bottom: 1px solid #e4e4e7; }
th { background: #fafafa; }
code { background: #f1f5f9; padding: .1rem .3rem; border-radius: 3px; }
</style>
</head>
<body>
<header>
<div><strong>{{.Event}}</strong> &middot; {{.Count}} tickets</div>
<a href="/admin/logout">Logout</a>
</header>
<main>
{{if .Tickets}}
<table>
<thead>
<tr><th>Code</th><th>Buyer</th><th>Status</th><th>Payment</th><th>Issued</th></tr>
</thead>
<tbody>
{{range .Tickets}}
<tr>
<td><code>{{.Code}}</code></td>
<td>{{.BuyerEmail}}</td>
<td>{{.Status}}</td>
<td>{{.PaymentRef}}</td>
<td>{{.Created}}</td>
</tr>
{{end}}
</tbody>
</table>
{{else}}
<p>No tickets issued yet.</p>
{{end}}
</main>
</body>
</html>`
