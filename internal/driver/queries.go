package driver

var IndexQueries = []string{
	"CREATE INDEX ON :Run(uuid);",
	"CREATE INDEX ON :Utterance(id);",
	"CREATE INDEX ON :Utterance(run_id);",
	"CREATE INDEX ON :WikidataEntity(wikidata_id);",
}

const (
	SaveRunQuery = `
		MERGE (r:Run {uuid: $uuid})
		SET r.created_at = $created_at,
			r.linker = $linker,
			r.dataset = $dataset
		RETURN r.uuid AS uuid
	`

	SaveUtteranceQuery = `
		MATCH (r:Run {uuid: $run_id})
		MERGE (u:Utterance {id: $id, run_id: $run_id})
		SET u.text = $text,
			u.thingtalk = $thingtalk
		MERGE (r)-[:HAS_UTTERANCE]->(u)
		RETURN u.id AS id
	`

	SaveMentionsQuery = `
		MATCH (u:Utterance {id: $id, run_id: $run_id})
		UNWIND range(0, size($entities) - 1) AS position
		MERGE (e:WikidataEntity {wikidata_id: $entities[position]})
		MERGE (u)-[m:MENTIONS {position: position}]->(e)
		RETURN count(m) AS mentions
	`

	GetRunMentionsQuery = `
		MATCH (:Run {uuid: $run_id})-[:HAS_UTTERANCE]->(u:Utterance)-[m:MENTIONS]->(e:WikidataEntity)
		RETURN u.id AS id, e.wikidata_id AS wikidata_id
		ORDER BY u.id, m.position
	`
)
