package web

// Single-page dashboard: vault cards with live accrual, wallet panel and a
// claim history sidebar.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Keltra</title>
  <link rel="preconnect" href="https://fonts.googleapis.com">
  <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
  <link href="https://fonts.googleapis.com/css2?family=Press+Start+2P&family=Space+Mono:wght@400;700&display=swap" rel="stylesheet">
  <style>
    :root {
      --bg:#ffffff;
      --ink:#111111;
      --ink-mid:#4d4d4d;
      --ink-soft:#9c9c9c;
      --panel:#f6f6f6;
    }
    * { box-sizing:border-box; }
    body {
      margin:0;
      min-height:100vh;
      display:flex;
      align-items:center;
      justify-content:center;
      padding:2rem;
      background:var(--bg);
      color:var(--ink);
      font-family:'Space Mono','JetBrains Mono',monospace;
    }
    #app {
      width:min(1400px, 96vw);
      background:var(--panel);
      border:3px solid var(--ink);
      padding:2rem;
      box-shadow:12px 12px 0 rgba(0,0,0,.15);
      display:grid;
      grid-template-columns:1fr 360px;
      gap:2rem;
    }
    .main-content { display:flex; flex-direction:column; gap:2rem; }
    header { display:flex; justify-content:space-between; align-items:flex-start; gap:1rem; }
    .eyebrow {
      font-family:'Press Start 2P','Space Mono',monospace;
      font-size:.55rem;
      text-transform:uppercase;
      letter-spacing:.2em;
      margin:0;
    }
    .status {
      font-size:.65rem;
      text-transform:uppercase;
      letter-spacing:.1em;
      border:2px solid var(--ink);
      padding:.4rem .9rem;
      background:#ffffff;
      box-shadow:4px 4px 0 rgba(0,0,0,.15);
      cursor:pointer;
    }
    .wallet {
      border:3px solid var(--ink);
      padding:1.2rem;
      background:#fff;
      box-shadow:6px 6px 0 rgba(0,0,0,.12);
    }
    .wallet .label {
      font-size:.62rem;
      text-transform:uppercase;
      letter-spacing:.2em;
      color:var(--ink-mid);
    }
    .wallet .value { margin-top:.6rem; font-size:1.6rem; font-weight:700; }
    .rewards { display:flex; flex-wrap:wrap; gap:.5rem; margin-top:.8rem; }
    .pill {
      font-size:.55rem;
      letter-spacing:.12em;
      text-transform:uppercase;
      padding:.35rem .7rem;
      border:2px solid var(--ink);
      background:#fefefe;
      box-shadow:4px 4px 0 rgba(0,0,0,.15);
    }
    .vault-grid { display:grid; grid-template-columns:repeat(auto-fit, minmax(300px, 1fr)); gap:1.5rem; }
    .vault-card {
      border:3px solid var(--ink);
      padding:1.5rem;
      background:#fff;
      box-shadow:8px 8px 0 rgba(0,0,0,.15);
      display:flex;
      flex-direction:column;
      gap:.8rem;
    }
    .vault-card.coming { opacity:.55; }
    .vault-name {
      font-family:'Press Start 2P','Space Mono',monospace;
      font-size:.7rem;
      margin:0;
      line-height:1.4;
    }
    .metric { display:flex; justify-content:space-between; font-size:.7rem; }
    .metric .k { color:var(--ink-mid); text-transform:uppercase; letter-spacing:.1em; }
    .accrued { font-weight:700; }
    .actions { display:flex; gap:.5rem; flex-wrap:wrap; margin-top:.4rem; }
    .actions input {
      flex:1 1 100%;
      font-family:inherit;
      font-size:.7rem;
      padding:.4rem;
      border:2px solid var(--ink);
    }
    .actions button {
      font-family:inherit;
      font-size:.6rem;
      text-transform:uppercase;
      letter-spacing:.1em;
      padding:.45rem .8rem;
      border:2px solid var(--ink);
      background:#fff;
      cursor:pointer;
      box-shadow:3px 3px 0 rgba(0,0,0,.2);
    }
    .actions button:active { transform:translate(2px,2px); box-shadow:none; }
    .claims-sidebar { display:flex; flex-direction:column; gap:1rem; max-height:calc(100vh - 8rem); overflow-y:auto; }
    .sidebar-title {
      font-family:'Press Start 2P','Space Mono',monospace;
      font-size:.6rem;
      text-transform:uppercase;
      letter-spacing:.15em;
      margin:0 0 .5rem;
      padding-bottom:.8rem;
      border-bottom:2px solid var(--ink);
    }
    .claim-card {
      border:2px solid var(--ink);
      padding:1rem;
      background:#fff;
      box-shadow:4px 4px 0 rgba(0,0,0,.12);
      font-size:.65rem;
      line-height:1.5;
    }
    .claim-card .tx { color:var(--ink-soft); word-break:break-all; }
    .error-toast {
      position:fixed;
      bottom:1.5rem;
      right:1.5rem;
      border:2px solid #d7263d;
      background:#fff;
      color:#d7263d;
      padding:.8rem 1.2rem;
      font-size:.7rem;
      display:none;
    }
    @media (max-width:860px) {
      #app { grid-template-columns:1fr; padding:1.2rem; }
      .claims-sidebar { max-height:360px; }
    }
  </style>
</head>
<body>
  <div id="app">
    <div class="main-content">
      <header>
        <p class="eyebrow">keltra vaults</p>
        <div id="wallet-btn" class="status">Connect wallet</div>
      </header>
      <section class="wallet">
        <div class="label">Wallet balance</div>
        <div id="walletUsdc" class="value">0.00 USDC</div>
        <div id="walletRewards" class="rewards"></div>
      </section>
      <section id="vaults" class="vault-grid"></section>
    </div>
    <aside class="claims-sidebar">
      <h3 class="sidebar-title">Claim history</h3>
      <div id="claims"></div>
    </aside>
  </div>
  <div id="toast" class="error-toast"></div>
<script>
const vaultContainer = document.getElementById('vaults');
const walletBtn = document.getElementById('wallet-btn');
const walletUsdcEl = document.getElementById('walletUsdc');
const walletRewardsEl = document.getElementById('walletRewards');
const claimsContainer = document.getElementById('claims');
const toast = document.getElementById('toast');

let vaults = [];
let state = { wallet: { connected: false, usdc: 0, rewards: {} }, positions: {} };

const fmt = (v, digits) => Number(v || 0).toLocaleString('en-US', {
  minimumFractionDigits: digits === undefined ? 2 : digits,
  maximumFractionDigits: digits === undefined ? 2 : digits
});

function showError(msg){
  toast.textContent = msg;
  toast.style.display = 'block';
  setTimeout(() => { toast.style.display = 'none'; }, 4000);
}

async function api(path, body){
  const res = await fetch(path, {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify(body || {})
  });
  const payload = await res.json().catch(() => ({}));
  if(!res.ok){
    throw new Error(payload.error || ('request failed: ' + res.status));
  }
  return payload;
}

function renderWallet(){
  const w = state.wallet || {};
  walletBtn.textContent = w.connected ? (w.address || 'Connected') : 'Connect wallet';
  walletUsdcEl.textContent = fmt(w.usdc) + ' USDC';
  walletRewardsEl.innerHTML = '';
  for(const [token, amount] of Object.entries(w.rewards || {})){
    if(!amount) continue;
    const pill = document.createElement('span');
    pill.className = 'pill';
    pill.textContent = fmt(amount, 6) + ' ' + token;
    walletRewardsEl.appendChild(pill);
  }
}

function vaultCard(vault){
  const card = document.createElement('article');
  card.className = 'vault-card' + (vault.status === 'Coming' ? ' coming' : '');
  card.dataset.vault = vault.id;

  const position = state.positions[vault.id] || {};
  card.innerHTML =
    '<h2 class="vault-name">' + vault.name + '</h2>' +
    '<div class="metric"><span class="k">Net APR</span><span>' + fmt(vault.net_apr) + '%</span></div>' +
    '<div class="metric"><span class="k">Perf fee</span><span>' + fmt(vault.performance_fee_pct, 0) + '%</span></div>' +
    '<div class="metric"><span class="k">TVL</span><span>$' + fmt(vault.tvl, 0) + '</span></div>' +
    '<div class="metric"><span class="k">Deposited</span><span class="principal">' + fmt(position.principal_usdc) + ' USDC</span></div>' +
    '<div class="metric"><span class="k">Accrued</span><span class="accrued">' + fmt(position.accrued_tokens, 8) + ' ' + vault.reward + '</span></div>';

  if(vault.status !== 'coming'){
    const actions = document.createElement('div');
    actions.className = 'actions';
    const input = document.createElement('input');
    input.type = 'number';
    input.min = '0';
    input.placeholder = 'amount USDC';
    const mkBtn = (label, fn) => {
      const b = document.createElement('button');
      b.textContent = label;
      b.addEventListener('click', fn);
      return b;
    };
    actions.append(
      input,
      mkBtn('Deposit', () => act('/api/deposit', vault.id, parseFloat(input.value))),
      mkBtn('Withdraw', () => act('/api/withdraw', vault.id, parseFloat(input.value))),
      mkBtn('Claim', () => act('/api/claim', vault.id))
    );
    card.appendChild(actions);
  }
  return card;
}

function act(path, vaultId, amount){
  api(path, { vault_id: vaultId, amount: amount }).catch((err) => showError(err.message));
}

function renderVaults(){
  vaultContainer.innerHTML = '';
  for(const vault of vaults){
    vaultContainer.appendChild(vaultCard(vault));
  }
}

function render(){
  renderWallet();
  renderVaults();
}

walletBtn.addEventListener('click', () => {
  const path = state.wallet && state.wallet.connected ? '/api/wallet/disconnect' : '/api/wallet/connect';
  api(path).catch((err) => showError(err.message));
});

function connectStateSSE(){
  const source = new EventSource('/state/stream');
  source.addEventListener('state', (event) => {
    try{
      const payload = JSON.parse(event.data);
      state = { wallet: payload.wallet, positions: payload.positions || {} };
      render();
    }catch(err){
      console.error('state payload parse', err);
    }
  });
  source.addEventListener('error', () => {
    source.close();
    setTimeout(connectStateSSE, 2000);
  });
}

function connectClaimsSSE(){
  const source = new EventSource('/claims/stream');
  source.addEventListener('claim', (event) => {
    try{
      const claim = JSON.parse(event.data);
      const card = document.createElement('div');
      card.className = 'claim-card';
      card.innerHTML =
        '<div><strong>' + fmt(claim.net_tokens, 6) + ' ' + claim.token + '</strong> from ' + claim.vault_id + '</div>' +
        '<div>fee ' + fmt(claim.fee_pct, 0) + '% on ' + fmt(claim.gross_tokens, 6) + '</div>' +
        '<div class="tx">' + claim.tx_hash + '</div>';
      claimsContainer.insertBefore(card, claimsContainer.firstChild);
      while(claimsContainer.children.length > 50){
        claimsContainer.removeChild(claimsContainer.lastChild);
      }
    }catch(err){
      console.error('claim payload parse', err);
    }
  });
  source.addEventListener('error', () => {
    source.close();
    setTimeout(connectClaimsSSE, 2000);
  });
}

fetch('/api/vaults')
  .then((res) => res.json())
  .then((payload) => { vaults = payload; render(); })
  .catch((err) => console.error('vaults load', err));

connectStateSSE();
connectClaimsSSE();
</script>
</body>
</html>`
