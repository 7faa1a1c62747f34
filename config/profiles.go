package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Profile fixes the identity of a pipeline and the inputs it expects.  The
// submitter holds no literal pipeline values; everything it sends comes from
// the profile selected at startup.
type Profile struct {
	Name            string            `yaml:"name"`
	PipelineID      string            `yaml:"pipeline_id"`
	PipelineVersion string            `yaml:"pipeline_version"`
	PrepExecutionID string            `yaml:"prep_execution_id"`
	NextflowVersion string            `yaml:"nextflow_version"`
	Paired          string            `yaml:"paired"`
	Params          map[string]string `yaml:"params"`
	// FileMap maps the pipeline's fixed reference input roles to the filenames
	// those roles are expected to carry in the prep execution's outputs.
	FileMap map[string]string `yaml:"file_map"`
}

// ClipProfile returns the built-in CLIP-Seq pipeline settings.
func ClipProfile() *Profile {
	return &Profile{
		Name:            "clip",
		PipelineID:      "960154035051242353",
		PipelineVersion: "1.6",
		PrepExecutionID: "602442133516131481",
		NextflowVersion: "24.04.2",
		Paired:          "both",
		Params: map[string]string{
			"move_umi_to_header": "true",
			"umi_header_format":  "NNNNNNNNNN",
			"umi_separator":      "_",
			"skip_umi_dedupe":    "false",
			"crosslink_position": "start",
		},
		FileMap: map[string]string{
			"fasta":                      "Homo_sapiens.GRCh38.fasta",
			"gtf":                        "Homo_sapiens.GRCh38.109.gtf",
			"smrna_fasta":                "Homo_sapiens.GRCh38.smrna.fasta",
			"fasta_fai":                  "Homo_sapiens.GRCh38.fasta.fai",
			"chrom_sizes":                "Homo_sapiens.GRCh38.fasta.sizes",
			"target_genome_index":        "star",
			"smrna_genome_index":         "bowtie",
			"smrna_fasta_fai":            "Homo_sapiens.GRCh38.smrna.fasta.fai",
			"smrna_chrom_sizes":          "Homo_sapiens.GRCh38.smrna.fasta.sizes",
			"longest_transcript":         "longest_transcript.txt",
			"longest_transcript_fai":     "longest_transcript.fai",
			"longest_transcript_gtf":     "longest_transcript.gtf",
			"filtered_gtf":               "Homo_sapiens_filtered.gtf",
			"seg_gtf":                    "Homo_sapiens_seg.gtf",
			"seg_filt_gtf":               "Homo_sapiens_filtered_seg.gtf",
			"seg_resolved_gtf":           "Homo_sapiens_filtered_seg_genicOtherfalse.resolved.gtf",
			"seg_resolved_gtf_genic":     "Homo_sapiens_filtered_seg_genicOthertrue.resolved.gtf",
			"regions_gtf":                "Homo_sapiens_regions.gtf.gz",
			"regions_filt_gtf":           "Homo_sapiens_filtered_regions.gtf.gz",
			"regions_resolved_gtf":       "Homo_sapiens_filtered_regions_genicOtherfalse.resolved.gtf",
			"regions_resolved_gtf_genic": "Homo_sapiens_filtered_regions_genicOthertrue.resolved.gtf",
		},
	}
}

// RNAProfile returns the built-in RNA-seq pipeline settings.
func RNAProfile() *Profile {
	return &Profile{
		Name:            "rna",
		PipelineID:      "583494301973770088",
		PipelineVersion: "3.12",
		PrepExecutionID: "538918850957626478",
		NextflowVersion: "24.04.2",
		Paired:          "both",
		Params: map[string]string{
			// UMI
			"with_umi":                "true",
			"umitools_extract_method": "regex",
			"umitools_bc_pattern":     "^(?P<discard_1>.{4})(?P<umi_1>.{5})",
			"skip_umi_extract":        "false",
			"umitools_dedup_stats":    "false",
			"save_umi_intermeds":      "false",

			// Annotation/grouping
			"gencode":                    "false",
			"gtf_extra_attributes":       "gene_name",
			"gtf_group_features":         "gene_id",
			"featurecounts_group_type":   "gene_biotype",
			"featurecounts_feature_type": "exon",

			// Align/quant
			"aligner":               "star_salmon",
			"pseudo_aligner":        "",
			"bam_csi_index":         "false",
			"star_ignore_sjdbgtf":   "false",
			"stringtie_ignore_gtf":  "false",
			"save_unaligned":        "false",
			"save_align_intermeds":  "false",
			"skip_markduplicates":   "false",
			"skip_alignment":        "false",
			"skip_pseudo_alignment": "false",

			// Trimming
			"trimmer":       "trimgalore",
			"skip_trimming": "false",
			"save_trimmed":  "false",

			// rRNA options
			"remove_ribo_rna":        "false",
			"ribo_database_manifest": "./assets/rrna-db-defaults.txt",
			"save_non_ribo_reads":    "false",

			// QC
			"deseq2_vst":      "true",
			"skip_bigwig":     "false",
			"skip_stringtie":  "false",
			"skip_fastqc":     "false",
			"skip_preseq":     "true",
			"skip_qualimap":   "false",
			"skip_rseqc":      "false",
			"skip_biotype_qc": "false",
			"skip_deseq2_qc":  "false",
			"skip_multiqc":    "false",
			"skip_qc":         "false",
		},
		FileMap: map[string]string{
			"fasta":            "Homo_sapiens.GRCh38.fasta",
			"gtf":              "Homo_sapiens.GRCh38.109.gtf",
			"gene_bed":         "Homo_sapiens.GRCh38.109.bed",
			"transcript_fasta": "genome.transcripts.fa",
			"splicesites":      "Homo_sapiens.GRCh38.109.splice_sites.txt",
			"star_index":       "star",
			"rsem_index":       "rsem",
			"hisat2_index":     "hisat2",
			"salmon_index":     "salmon",
		},
	}
}

// LoadProfile reads a pipeline profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read profile file %s", path)
	}
	var p Profile
	if err := yaml.Unmarshal(content, &p); err != nil {
		return nil, errors.Wrapf(err, "failed to parse profile file %s", path)
	}
	if p.PipelineID == "" || p.PipelineVersion == "" || p.PrepExecutionID == "" {
		return nil, errors.Errorf("profile %s is missing pipeline_id, pipeline_version or prep_execution_id", path)
	}
	return &p, nil
}

// ResolveProfile returns the profile to run with.  A file path takes priority
// over the built-in profile names.
func ResolveProfile(name string, path string) (*Profile, error) {
	if path != "" {
		return LoadProfile(path)
	}
	switch name {
	case "clip", "":
		return ClipProfile(), nil
	case "rna":
		return RNAProfile(), nil
	}
	return nil, errors.Errorf("unknown pipeline profile %q (built-in profiles: clip, rna)", name)
}
