package registry

import (
	"github.com/mz/pipeforge/internal/component"
	"github.com/zclconf/go-cty/cty"
)

// NewGCP builds the static connector table for the "gcp" provider.
//
// The table is the single place where a connector's parameter surface and its
// implied resources are declared. Connectors that appear in roadmaps but are
// not listed here (kinesis, dynamodb, ...) fail lookup with NotFoundError.
func NewGCP() *Registry {
	r := New("gcp")

	r.Register(&Schema{
		Role: component.RoleSource,
		Kind: "pubsub",
		Params: []ParamSpec{
			{Name: "topic", Type: cty.String, Required: true},
		},
		Resources: []ResourceTemplate{
			{
				Type:        "google_pubsub_topic",
				NamePattern: "${param.topic}",
				Attrs: map[string]string{
					"name":    "${param.topic}",
					"project": "${project}",
				},
				LocatorPattern: "projects/${project}/topics/${param.topic}",
				DataProducer:   true,
			},
			{
				Type:        "google_pubsub_subscription",
				NamePattern: "${param.topic}-sub",
				Attrs: map[string]string{
					"name":    "${param.topic}-sub",
					"project": "${project}",
				},
				RefAttrs: map[string]RefSpec{
					"topic": {TargetType: "google_pubsub_topic", TargetAttr: "id"},
				},
			},
		},
	})

	r.Register(&Schema{
		Role: component.RoleSource,
		Kind: "gcs",
		Params: []ParamSpec{
			{Name: "bucket", Type: cty.String, Required: true},
			{Name: "prefix", Type: cty.String, Default: cty.StringVal("")},
		},
		Resources: []ResourceTemplate{
			{
				Type:        "google_storage_bucket",
				NamePattern: "${param.bucket}",
				Attrs: map[string]string{
					"name":     "${param.bucket}",
					"project":  "${project}",
					"location": "${region}",
				},
				LocatorPattern: "gs://${param.bucket}/${param.prefix}",
				DataProducer:   true,
			},
		},
	})

	// Transforms all materialize as managed Dataflow jobs. The job resource
	// is the pipeline's processing resource: it consumes the upstream data
	// producer and is additionally linked to its output during resolution.
	for _, t := range []struct {
		kind   string
		params []ParamSpec
	}{
		{kind: "process_messages", params: []ParamSpec{
			{Name: "window", Type: cty.String, Default: cty.StringVal("60s")},
		}},
		{kind: "clean_data", params: []ParamSpec{
			{Name: "columns", Type: cty.List(cty.String), Default: cty.ListValEmpty(cty.String)},
		}},
		{kind: "filter_rows", params: []ParamSpec{
			{Name: "predicate", Type: cty.String, Required: true},
		}},
	} {
		r.Register(&Schema{
			Role:   component.RoleTransform,
			Kind:   t.kind,
			Params: t.params,
			Resources: []ResourceTemplate{
				{
					Type:        "google_dataflow_job",
					NamePattern: "${node}",
					Attrs: map[string]string{
						"name":              "${node}",
						"project":           "${project}",
						"region":            "${region}",
						"temp_gcs_location": "gs://${project}-dataflow-tmp/${node}",
					},
					ConsumesUpstream: true,
					Service:          true,
					Elevated:         true,
				},
			},
		})
	}

	r.Register(&Schema{
		Role: component.RoleSink,
		Kind: "bigquery",
		Params: []ParamSpec{
			{Name: "dataset", Type: cty.String, Required: true},
			{Name: "table", Type: cty.String, Required: true},
		},
		Resources: []ResourceTemplate{
			{
				Type:        "google_bigquery_dataset",
				NamePattern: "${param.dataset}",
				Attrs: map[string]string{
					"dataset_id": "${param.dataset}",
					"project":    "${project}",
					"location":   "${region}",
				},
			},
			{
				Type:        "google_bigquery_table",
				NamePattern: "${param.table}",
				Attrs: map[string]string{
					"table_id": "${param.table}",
					"project":  "${project}",
				},
				RefAttrs: map[string]RefSpec{
					"dataset_id": {TargetType: "google_bigquery_dataset", TargetAttr: "dataset_id"},
				},
				LocatorPattern: "${project}:${param.dataset}.${param.table}",
				DataProducer:   true,
			},
		},
	})

	r.Register(&Schema{
		Role: component.RoleSink,
		Kind: "bigtable",
		Params: []ParamSpec{
			{Name: "instance", Type: cty.String, Required: true},
			{Name: "table", Type: cty.String, Required: true},
		},
		Resources: []ResourceTemplate{
			{
				Type:        "google_bigtable_instance",
				NamePattern: "${param.instance}",
				Attrs: map[string]string{
					"name":    "${param.instance}",
					"project": "${project}",
				},
			},
			{
				Type:        "google_bigtable_table",
				NamePattern: "${param.table}",
				Attrs: map[string]string{
					"name": "${param.table}",
				},
				RefAttrs: map[string]RefSpec{
					"instance_name": {TargetType: "google_bigtable_instance", TargetAttr: "name"},
				},
				LocatorPattern: "projects/${project}/instances/${param.instance}/tables/${param.table}",
				DataProducer:   true,
			},
		},
	})

	r.Register(&Schema{
		Role: component.RoleSink,
		Kind: "gcs",
		Params: []ParamSpec{
			{Name: "bucket", Type: cty.String, Required: true},
			{Name: "path", Type: cty.String, Default: cty.StringVal("output/")},
		},
		Resources: []ResourceTemplate{
			{
				Type:        "google_storage_bucket",
				NamePattern: "${param.bucket}",
				Attrs: map[string]string{
					"name":     "${param.bucket}",
					"project":  "${project}",
					"location": "${region}",
				},
				LocatorPattern: "gs://${param.bucket}/${param.path}",
				DataProducer:   true,
			},
		},
	})

	return r
}
