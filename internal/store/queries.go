package store

const (
	SaveSourceQuery = `
		MERGE (s:Source {id: $id})
		SET s.card_id = $card_id,
			s.url = $url,
			s.title = $title,
			s.content = $content,
			s.embedding = $embedding,
			s.duplicate_of = $duplicate_of,
			s.is_related = $is_related,
			s.created_at = $created_at
		RETURN s.id AS id
	`

	SaveCardQuery = `
		MERGE (c:Card {id: $id})
		SET c.name = $name,
			c.summary = $summary,
			c.pillar = $pillar,
			c.confidence = $confidence,
			c.status = $status,
			c.source_count = $source_count,
			c.embedding = $embedding,
			c.created_at = $created_at,
			c.updated_at = $updated_at
		RETURN c.id AS id
	`

	AttachSourceQuery = `
		MATCH (c:Card {id: $card_id})
		MATCH (s:Source {id: $source_id})
		MERGE (s)-[e:BELONGS_TO]->(c)
		SET e.created_at = $created_at,
			c.source_count = coalesce(c.source_count, 0) + 1,
			c.updated_at = $created_at
		RETURN e IS NOT NULL AS attached
	`

	FindSourceByURLQuery = `
		MATCH (s:Source {card_id: $card_id, url: $url})
		RETURN s.id AS id, s.card_id AS card_id, s.url AS url, s.title AS title,
			s.duplicate_of AS duplicate_of, s.is_related AS is_related
		LIMIT 1
	`

	// Similarity searches go through Memgraph's vector_search module; scope
	// and minimum-similarity filtering happen after the index lookup because
	// the module cannot filter on node properties itself.
	SearchSimilarSourcesQuery = `
		CALL vector_search.search("source_embedding_index", $search_limit, $vector)
		YIELD node, similarity
		WHERE node:Source
			AND node.card_id = $card_id
			AND (node.duplicate_of IS NULL OR node.duplicate_of = "")
			AND similarity >= $min_similarity
		RETURN node.id AS id, similarity
		ORDER BY similarity DESC
		LIMIT $limit
	`

	SearchSimilarCardsQuery = `
		CALL vector_search.search("card_embedding_index", $search_limit, $vector)
		YIELD node, similarity
		WHERE node:Card
			AND node.pillar = $pillar
			AND node.status = $status
			AND similarity >= $min_similarity
		RETURN node.id AS id, similarity
		ORDER BY similarity DESC
		LIMIT $limit
	`
)
