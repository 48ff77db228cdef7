package application

import "regexp"

// Substitution is one detector/template pair within a rule. Replace is
// expanded with regexp.ReplaceAllString semantics, so $1-style group
// references are allowed.
//
// Catalog invariant: no Replace output may match any substitution's Pattern,
// in this rule or any other. Running the rewriter over its own output must
// find nothing. Tested per rule in rewriter_test.go.
type Substitution struct {
	Pattern *regexp.Regexp
	Replace string
}

// PatternRule pairs the signatures of one proprietary service with its
// open-source replacement and a human-readable migration note.
type PatternRule struct {
	ID          string
	ServiceName string
	Replacement string
	Subs        []Substitution
	Note        string
}

// defaultCatalog is the static rule table, compiled once at process start.
// Order matters only for change-log readability: rules target disjoint
// services and may co-occur in one file.
var defaultCatalog = []PatternRule{
	{
		ID:          "openai",
		ServiceName: "OpenAI",
		Replacement: "Ollama",
		Subs: []Substitution{
			{regexp.MustCompile(`import\s+OpenAI\s+from\s+['"]openai['"];?`), `import { Ollama } from "ollama";`},
			{regexp.MustCompile(`require\(\s*['"]openai['"]\s*\)`), `require("ollama")`},
			{regexp.MustCompile(`new\s+OpenAI\s*\(`), `new Ollama(`},
			{regexp.MustCompile(`https://api\.openai\.com/v1`), `http://localhost:11434/v1`},
		},
		Note: "OpenAI API calls now target a local Ollama server (default port 11434). " +
			"Pull a model with `ollama pull llama3.1` and pass it as the `model` option; " +
			"the chat/completions surface is OpenAI-compatible.",
	},
	{
		ID:          "anthropic",
		ServiceName: "Anthropic",
		Replacement: "Ollama",
		Subs: []Substitution{
			{regexp.MustCompile(`import\s+Anthropic\s+from\s+['"]@anthropic-ai/sdk['"];?`), `import { Ollama } from "ollama";`},
			{regexp.MustCompile(`require\(\s*['"]@anthropic-ai/sdk['"]\s*\)`), `require("ollama")`},
			{regexp.MustCompile(`new\s+Anthropic\s*\(`), `new Ollama(`},
			{regexp.MustCompile(`https://api\.anthropic\.com`), `http://localhost:11434`},
		},
		Note: "Anthropic API calls now target a local Ollama server. Message-shaped requests map " +
			"onto Ollama's chat endpoint; review max_tokens/stop handling after migrating.",
	},
	{
		ID:          "supabase-hosted",
		ServiceName: "Supabase (hosted)",
		Replacement: "Supabase (self-hosted)",
		Subs: []Substitution{
			{regexp.MustCompile(`https://[a-z0-9-]+\.supabase\.co`), `http://localhost:8000`},
		},
		Note: "supabase-js is itself open source; only the hosted project URL changed. Run the " +
			"self-hosted stack (docker compose from supabase/supabase) and replace the anon key " +
			"with the one it generates.",
	},
	{
		ID:          "pinecone",
		ServiceName: "Pinecone",
		Replacement: "Qdrant",
		Subs: []Substitution{
			{regexp.MustCompile(`import\s*\{\s*Pinecone\s*\}\s*from\s+['"]@pinecone-database/pinecone['"];?`), `import { QdrantClient } from "@qdrant/js-client-rest";`},
			{regexp.MustCompile(`require\(\s*['"]@pinecone-database/pinecone['"]\s*\)`), `require("@qdrant/js-client-rest")`},
			{regexp.MustCompile(`new\s+Pinecone\s*\(`), `new QdrantClient(`},
		},
		Note: "Vector search now targets Qdrant (default port 6333). Indexes become collections; " +
			"upsert/query payloads need their field names adjusted (`values` -> `vector`).",
	},
	{
		ID:          "clerk",
		ServiceName: "Clerk",
		Replacement: "Lucia",
		Subs: []Substitution{
			{regexp.MustCompile(`['"]@clerk/[A-Za-z0-9/._-]+['"]`), `"lucia"`},
		},
		Note: "Clerk imports were pointed at Lucia. Lucia is a library, not a drop-in provider: " +
			"session storage and the sign-in UI must be wired to your own database and routes.",
	},
	{
		ID:          "auth0",
		ServiceName: "Auth0",
		Replacement: "Keycloak",
		Subs: []Substitution{
			{regexp.MustCompile(`['"]@auth0/auth0-react['"]`), `"react-oidc-context"`},
			{regexp.MustCompile(`['"]@auth0/auth0-spa-js['"]`), `"oidc-client-ts"`},
			{regexp.MustCompile(`https://[a-z0-9-]+(\.[a-z]{2})?\.auth0\.com`), `http://localhost:8080/realms/main`},
		},
		Note: "Auth0 tenants were replaced with a local Keycloak realm via standard OIDC clients. " +
			"Create a realm named `main`, register your app as a client, and copy its client ID.",
	},
	{
		ID:          "firebase",
		ServiceName: "Firebase",
		Replacement: "PocketBase",
		Subs: []Substitution{
			{regexp.MustCompile(`['"]firebase/(?:app|auth|firestore|storage|analytics)['"]`), `"pocketbase"`},
			{regexp.MustCompile(`require\(\s*['"]firebase(?:/[a-z-]+)?['"]\s*\)`), `require("pocketbase")`},
			{regexp.MustCompile(`initializeApp\s*\(`), `new PocketBase(`},
		},
		Note: "Firebase usage now targets PocketBase (default port 8090), which bundles auth, a " +
			"document store, and file storage in one binary. Firestore queries need rewriting to " +
			"PocketBase collection filters.",
	},
	{
		ID:          "algolia",
		ServiceName: "Algolia",
		Replacement: "Meilisearch",
		Subs: []Substitution{
			{regexp.MustCompile(`import\s+algoliasearch\s+from\s+['"]algoliasearch['"];?`), `import { MeiliSearch } from "meilisearch";`},
			{regexp.MustCompile(`['"]algoliasearch['"]`), `"meilisearch"`},
			{regexp.MustCompile(`\balgoliasearch\s*\(`), `new MeiliSearch(`},
		},
		Note: "Search now targets Meilisearch (default port 7700). Indexes carry over almost " +
			"one-to-one; move app ID / admin key pairs to a single Meilisearch master key.",
	},
	{
		ID:          "aws-s3",
		ServiceName: "AWS S3",
		Replacement: "MinIO",
		Subs: []Substitution{
			{regexp.MustCompile(`import\s*\{[^}]*\}\s*from\s+['"]@aws-sdk/client-s3['"];?`), `import * as Minio from "minio";`},
			{regexp.MustCompile(`['"]@aws-sdk/client-s3['"]`), `"minio"`},
			{regexp.MustCompile(`new\s+S3Client\s*\(`), `new Minio.Client(`},
			{regexp.MustCompile(`https://s3[.-][a-z0-9-]+\.amazonaws\.com`), `http://localhost:9000`},
		},
		Note: "Object storage now targets MinIO (default port 9000), which speaks the S3 wire " +
			"protocol. Bucket names carry over; credentials come from the MinIO root user.",
	},
	{
		ID:          "google-analytics",
		ServiceName: "Google Analytics",
		Replacement: "Umami",
		Subs: []Substitution{
			{regexp.MustCompile(`https://www\.googletagmanager\.com/gtag/js(\?id=[A-Za-z0-9_-]+)?`), `http://localhost:3001/script.js`},
			{regexp.MustCompile(`\bgtag\(\s*(['"])`), `umami.track($1`},
		},
		Note: "The gtag loader was swapped for a self-hosted Umami script and event calls were " +
			"mapped to umami.track. Add your site's data-website-id attribute to the script tag.",
	},
	{
		ID:          "sentry-hosted",
		ServiceName: "Sentry (hosted)",
		Replacement: "GlitchTip",
		Subs: []Substitution{
			{regexp.MustCompile(`https://[a-f0-9]+@o[0-9]+\.ingest(\.[a-z0-9-]+)?\.sentry\.io/[0-9]+`), `http://public@localhost:8001/1`},
		},
		Note: "The Sentry SDK is open source and stays; its DSN now points at a self-hosted " +
			"GlitchTip instance, which accepts the Sentry protocol unchanged.",
	},
}

// DefaultCatalog returns the static pattern-rule table. Callers must not
// mutate it.
func DefaultCatalog() []PatternRule {
	return defaultCatalog
}
