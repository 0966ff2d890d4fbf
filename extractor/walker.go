package extractor

// walkerJS is the single function injected into the page. It walks the
// document from the body, captures the computed properties the Go side
// consumes, and returns one JSON document: raw node tree, page metadata,
// framework signals, custom properties, and font families. All inference
// happens in Go; the page side only reads.
const walkerJS = `() => {
	const PROPS = [
		'display', 'position', 'overflow',
		'flex-direction', 'flex-wrap', 'flex-grow',
		'gap', 'row-gap', 'justify-content', 'align-items',
		'padding-top', 'padding-right', 'padding-bottom', 'padding-left',
		'grid-template-columns',
		'font-family', 'font-size', 'font-weight',
		'line-height', 'letter-spacing', 'text-align',
		'color', 'background-color', 'background-image',
		'border-top-width', 'border-top-color', 'border-radius',
		'box-shadow', 'filter', 'backdrop-filter',
		'opacity', 'transform', 'visibility',
	];
	const MAX_NODES = 20000;
	let seen = 0;

	const styleOf = (cs) => {
		const out = {};
		for (const p of PROPS) {
			const v = cs.getPropertyValue(p);
			if (v) out[p] = v;
		}
		// Authored sizes: computed width/height always resolve to px and
		// lose the sizing intent, so read the inline/authored value too.
		return out;
	};

	const rawSize = (el) => {
		const st = el.style || {};
		return { width: st.width || '', height: st.height || '' };
	};

	const pseudoOf = (el, which) => {
		const cs = getComputedStyle(el, which);
		const content = cs.getPropertyValue('content');
		if (!content || content === 'none' || content === 'normal') return null;
		const bg = cs.getPropertyValue('background-color');
		const color = cs.getPropertyValue('color');
		const img = cs.getPropertyValue('background-image');
		const hasVisual = (bg && bg !== 'rgba(0, 0, 0, 0)') ||
			(img && img !== 'none') ||
			(content.length > 2);
		if (!hasVisual) return null;
		return {
			content: content.replace(/^"|"$/g, ''),
			styles: styleOf(cs),
			width: parseFloat(cs.getPropertyValue('width')) || 0,
			height: parseFloat(cs.getPropertyValue('height')) || 0,
		};
	};

	const dataAttrs = (el) => {
		const out = {};
		for (const a of el.attributes) {
			if (a.name.startsWith('data-')) out[a.name] = a.value;
		}
		if (el.placeholder) out['placeholder'] = el.placeholder;
		return Object.keys(out).length ? out : undefined;
	};

	const INLINE = new Set(['STRONG', 'EM', 'B', 'I', 'A', 'BR', 'SPAN', 'CODE']);

	const walk = (el) => {
		if (seen++ > MAX_NODES) return null;
		if (el.nodeType !== 1) return null;
		const tag = el.tagName.toLowerCase();
		if (tag === 'script' || tag === 'style' || tag === 'noscript' ||
			tag === 'template' || tag === 'link' || tag === 'meta') return null;

		const cs = getComputedStyle(el);
		const rect = el.getBoundingClientRect();
		const visible = cs.display !== 'none' && cs.visibility !== 'hidden' &&
			rect.width > 0 && rect.height > 0;

		const node = {
			tag: tag,
			styles: styleOf(cs),
			raw: rawSize(el),
			rect: { x: rect.x, y: rect.y, width: rect.width, height: rect.height },
			visible: visible,
		};

		if (el.classList.length) node.classes = Array.from(el.classList);
		const role = el.getAttribute('role');
		if (role) node.role = role;
		const data = dataAttrs(el);
		if (data) node.data = data;

		if (tag === 'svg') {
			node.svg = el.outerHTML;
			return node;
		}
		if (tag === 'img') {
			node.imageUrl = el.currentSrc || el.src || '';
			return node;
		}
		if (tag === 'video') {
			node.imageUrl = el.poster || '';
			return node;
		}

		const kids = Array.from(el.childNodes);
		const elementKids = kids.filter(k => k.nodeType === 1);
		const textKids = kids.filter(k => k.nodeType === 3 && k.textContent.trim());

		// Single text child: lift the text, treat as a leaf.
		if (elementKids.length === 0 && textKids.length > 0) {
			node.text = textKids.map(t => t.textContent).join('').trim();
			node.textOnly = true;
		} else if (textKids.length > 0 &&
			elementKids.every(k => INLINE.has(k.tagName))) {
			// Mixed inline formatting: ship the markup for flattening.
			node.text = el.textContent.trim();
			node.html = el.innerHTML;
			node.textOnly = true;
		} else {
			const children = [];
			for (const k of elementKids) {
				const c = walk(k);
				if (c) children.push(c);
			}
			if (children.length) node.children = children;
		}

		const before = pseudoOf(el, '::before');
		if (before) node.before = before;
		const after = pseudoOf(el, '::after');
		if (after) node.after = after;

		return node;
	};

	const metaContent = (sel) => {
		const el = document.querySelector(sel);
		return el ? (el.content || el.href || '') : '';
	};

	const variables = [];
	for (const sheet of document.styleSheets) {
		let rules;
		try { rules = sheet.cssRules; } catch (e) { continue; } // cross-origin
		if (!rules) continue;
		for (const rule of rules) {
			if (!rule.style) continue;
			for (const prop of rule.style) {
				if (prop.startsWith('--')) {
					variables.push({ name: prop, value: rule.style.getPropertyValue(prop).trim() });
				}
			}
		}
	}

	const fonts = new Set();
	document.querySelectorAll('h1, h2, h3, p, span, a, li, button').forEach(el => {
		const fam = getComputedStyle(el).fontFamily.split(',')[0].trim().replace(/^["']|["']$/g, '');
		if (fam) fonts.add(fam);
	});

	const signals = [];
	if (window.__NEXT_DATA__) signals.push('next');
	if (window.__NUXT__) signals.push('nuxt');
	if (window.__SVELTEKIT__ || document.querySelector('[class*="svelte-"]')) signals.push('svelte');
	if (document.querySelector('[data-framer-name], #__framer-badge-container')) signals.push('framer');
	if (document.querySelector('html[data-wf-site], [data-w-id]')) signals.push('webflow');
	if (document.querySelector('[data-reactroot], #root > [data-reactid]') || window.React) signals.push('react');
	if (document.querySelector('[data-v-app]') || window.Vue) signals.push('vue');
	if (document.querySelector('[ng-version]')) signals.push('angular');
	if (document.querySelector('meta[name="generator"][content*="WordPress"]')) signals.push('wordpress');

	return {
		url: location.href,
		title: document.title,
		description: metaContent('meta[name="description"]'),
		favicon: metaContent('link[rel~="icon"]'),
		socialImage: metaContent('meta[property="og:image"]'),
		generator: metaContent('meta[name="generator"]'),
		signals: signals,
		viewport: { width: window.innerWidth, height: window.innerHeight },
		variables: variables,
		fonts: Array.from(fonts),
		root: walk(document.body),
	};
}`
