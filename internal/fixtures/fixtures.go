// Package fixtures holds small BPMN documents shared by the package tests.
package fixtures

// Minimal is one start event and one end event joined by a sequence flow
// that has no BPMNEdge, so its route must be synthesized.
const Minimal = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL"
    xmlns:bpmndi="http://www.omg.org/spec/BPMN/20100524/DI"
    xmlns:dc="http://www.omg.org/spec/DD/20100524/DC"
    xmlns:di="http://www.omg.org/spec/DD/20100524/DI"
    id="Definitions_1" targetNamespace="http://bpmn.io/schema/bpmn">
  <bpmn:process id="Process_1" isExecutable="false">
    <bpmn:startEvent id="Start_1"/>
    <bpmn:endEvent id="End_1"/>
    <bpmn:sequenceFlow id="Flow_1" sourceRef="Start_1" targetRef="End_1"/>
  </bpmn:process>
  <bpmndi:BPMNDiagram id="Diagram_1">
    <bpmndi:BPMNPlane id="Plane_1" bpmnElement="Process_1">
      <bpmndi:BPMNShape id="Start_1_di" bpmnElement="Start_1">
        <dc:Bounds x="50" y="50" width="36" height="36"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="End_1_di" bpmnElement="End_1">
        <dc:Bounds x="250" y="50" width="36" height="36"/>
      </bpmndi:BPMNShape>
    </bpmndi:BPMNPlane>
  </bpmndi:BPMNDiagram>
</bpmn:definitions>
`

// Collaboration is a pool with two named lanes, an external collapsed pool,
// every supported node kind, colour extensions, labels, a message flow and
// an annotation association.
const Collaboration = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="http://www.omg.org/spec/BPMN/20100524/MODEL"
    xmlns:bpmndi="http://www.omg.org/spec/BPMN/20100524/DI"
    xmlns:dc="http://www.omg.org/spec/DD/20100524/DC"
    xmlns:di="http://www.omg.org/spec/DD/20100524/DI"
    xmlns:bioc="http://bpmn.io/schema/bpmn/biocolor/1.0"
    xmlns:color="http://www.omg.org/spec/BPMN/non-normative/color/1.0"
    id="Defs_Order" name="Order handling">
  <collaboration id="Collab_1">
    <participant id="Pool_Shop" name="Shop" processRef="Process_Shop"/>
    <participant id="Pool_Customer" name="Customer"/>
    <messageFlow id="Msg_1" name="order" sourceRef="Pool_Customer" targetRef="Start_1"/>
    <textAnnotation id="Note_1">
      <text>Checked daily</text>
    </textAnnotation>
    <association id="Assoc_1" sourceRef="Note_1" targetRef="Task_Check"/>
  </collaboration>
  <process id="Process_Shop">
    <laneSet id="LaneSet_1">
      <lane id="Lane_Sales" name="Sales">
        <flowNodeRef>Start_1</flowNodeRef>
        <flowNodeRef>Task_Check</flowNodeRef>
        <flowNodeRef>Gw_1</flowNodeRef>
      </lane>
      <lane id="Lane_Store" name="Store">
        <flowNodeRef>Sub_Pack</flowNodeRef>
        <flowNodeRef>Timer_1</flowNodeRef>
        <flowNodeRef>End_1</flowNodeRef>
      </lane>
    </laneSet>
    <startEvent id="Start_1" name="Order received">
      <messageEventDefinition id="MED_1"/>
    </startEvent>
    <userTask id="Task_Check" name="Check order"/>
    <exclusiveGateway id="Gw_1" name="In stock?"/>
    <callActivity id="Sub_Pack" name="Pack"/>
    <intermediateCatchEvent id="Timer_1" name="1 day">
      <timerEventDefinition id="TED_1"/>
    </intermediateCatchEvent>
    <endEvent id="End_1" name="Shipped"/>
    <sequenceFlow id="F1" sourceRef="Start_1" targetRef="Task_Check"/>
    <sequenceFlow id="F2" sourceRef="Task_Check" targetRef="Gw_1"/>
    <sequenceFlow id="F3" name="yes" sourceRef="Gw_1" targetRef="Sub_Pack"/>
    <sequenceFlow id="F4" sourceRef="Sub_Pack" targetRef="Timer_1"/>
    <sequenceFlow id="F5" sourceRef="Timer_1" targetRef="End_1"/>
  </process>
  <bpmndi:BPMNDiagram id="Diagram_1" name="Order">
    <bpmndi:BPMNPlane id="Plane_1" bpmnElement="Collab_1">
      <bpmndi:BPMNShape id="Pool_Shop_di" bpmnElement="Pool_Shop" isHorizontal="true">
        <dc:Bounds x="100" y="200" width="800" height="300"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="Lane_Sales_di" bpmnElement="Lane_Sales" isHorizontal="true">
        <dc:Bounds x="130" y="200" width="770" height="150"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="Lane_Store_di" bpmnElement="Lane_Store" isHorizontal="true">
        <dc:Bounds x="130" y="350" width="770" height="150"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="Pool_Customer_di" bpmnElement="Pool_Customer" isHorizontal="true">
        <dc:Bounds x="100" y="40" width="800" height="60"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="Start_1_di" bpmnElement="Start_1" bioc:fill="#bbdefb" bioc:stroke="#0d4372">
        <dc:Bounds x="180" y="257" width="36" height="36"/>
        <bpmndi:BPMNLabel>
          <dc:Bounds x="160" y="300" width="77" height="14"/>
        </bpmndi:BPMNLabel>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="Task_Check_di" bpmnElement="Task_Check" color:background-color="#ffe0b2">
        <dc:Bounds x="270" y="235" width="100" height="80"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="Gw_1_di" bpmnElement="Gw_1" isMarkerVisible="true">
        <dc:Bounds x="425" y="250" width="50" height="50"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="Sub_Pack_di" bpmnElement="Sub_Pack">
        <dc:Bounds x="400" y="385" width="100" height="80"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="Timer_1_di" bpmnElement="Timer_1">
        <dc:Bounds x="572" y="407" width="36" height="36"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="End_1_di" bpmnElement="End_1">
        <dc:Bounds x="692" y="407" width="36" height="36"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="Note_1_di" bpmnElement="Note_1">
        <dc:Bounds x="420" y="120" width="100" height="40"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNEdge id="F1_di" bpmnElement="F1">
        <di:waypoint x="216" y="275"/>
        <di:waypoint x="270" y="275"/>
      </bpmndi:BPMNEdge>
      <bpmndi:BPMNEdge id="F2_di" bpmnElement="F2">
        <di:waypoint x="370" y="275"/>
        <di:waypoint x="425" y="275"/>
      </bpmndi:BPMNEdge>
      <bpmndi:BPMNEdge id="F3_di" bpmnElement="F3">
        <di:waypoint x="450" y="300"/>
        <di:waypoint x="450" y="385"/>
        <bpmndi:BPMNLabel>
          <dc:Bounds x="456" y="330" width="18" height="14"/>
        </bpmndi:BPMNLabel>
      </bpmndi:BPMNEdge>
      <bpmndi:BPMNEdge id="F4_di" bpmnElement="F4">
        <di:waypoint x="500" y="425"/>
        <di:waypoint x="572" y="425"/>
      </bpmndi:BPMNEdge>
      <bpmndi:BPMNEdge id="Msg_1_di" bpmnElement="Msg_1">
        <di:waypoint x="198" y="100"/>
        <di:waypoint x="198" y="257"/>
      </bpmndi:BPMNEdge>
      <bpmndi:BPMNEdge id="Assoc_1_di" bpmnElement="Assoc_1">
        <di:waypoint x="440" y="160"/>
        <di:waypoint x="340" y="235"/>
      </bpmndi:BPMNEdge>
    </bpmndi:BPMNPlane>
  </bpmndi:BPMNDiagram>
</definitions>
`

// UnknownKind contains a complex gateway, which has no rendering, between
// two tasks. The gateway and both flows touching it are dropped.
const UnknownKind = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn2:definitions xmlns:bpmn2="http://www.omg.org/spec/BPMN/20100524/MODEL"
    xmlns:bpmndi="http://www.omg.org/spec/BPMN/20100524/DI"
    xmlns:dc="http://www.omg.org/spec/DD/20100524/DC"
    xmlns:di="http://www.omg.org/spec/DD/20100524/DI" id="Defs_2">
  <bpmn2:process id="P">
    <bpmn2:task id="A" name="A"/>
    <bpmn2:complexGateway id="C"/>
    <bpmn2:task id="B" name="B"/>
    <bpmn2:sequenceFlow id="AC" sourceRef="A" targetRef="C"/>
    <bpmn2:sequenceFlow id="CB" sourceRef="C" targetRef="B"/>
    <bpmn2:sequenceFlow id="AB" sourceRef="A" targetRef="B"/>
  </bpmn2:process>
  <bpmndi:BPMNDiagram id="D">
    <bpmndi:BPMNPlane id="PL" bpmnElement="P">
      <bpmndi:BPMNShape id="A_di" bpmnElement="A">
        <dc:Bounds x="100" y="100" width="100" height="80"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="C_di" bpmnElement="C">
        <dc:Bounds x="250" y="115" width="50" height="50"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="B_di" bpmnElement="B">
        <dc:Bounds x="350" y="300" width="100" height="80"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNEdge id="AC_di" bpmnElement="AC">
        <di:waypoint x="200" y="140"/>
        <di:waypoint x="250" y="140"/>
      </bpmndi:BPMNEdge>
    </bpmndi:BPMNPlane>
  </bpmndi:BPMNDiagram>
</bpmn2:definitions>
`

// NoDiagram has semantic content but no BPMNDiagram section.
const NoDiagram = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="http://www.omg.org/spec/BPMN/20100524/MODEL" id="Defs_3">
  <process id="P">
    <startEvent id="S"/>
    <endEvent id="E"/>
    <sequenceFlow id="F" sourceRef="S" targetRef="E"/>
  </process>
</definitions>
`

// Malformed is not well-formed XML.
const Malformed = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="http://www.omg.org/spec/BPMN/20100524/MODEL">
  <process id="P">
    <startEvent id="S">
  </process>
</definitions>
`

// Vertical is a vertical pool (isHorizontal="false") with nested lanes and
// a single unnamed child lane.
const Vertical = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="http://www.omg.org/spec/BPMN/20100524/MODEL"
    xmlns:bpmndi="http://www.omg.org/spec/BPMN/20100524/DI"
    xmlns:dc="http://www.omg.org/spec/DD/20100524/DC" id="Defs_4">
  <collaboration id="Collab">
    <participant id="Pool_V" name="Vertical" processRef="PV"/>
  </collaboration>
  <process id="PV">
    <laneSet id="LS">
      <lane id="Lane_Outer" name="Outer">
        <flowNodeRef>T1</flowNodeRef>
        <childLaneSet id="CLS">
          <lane id="Lane_Inner">
            <flowNodeRef>T1</flowNodeRef>
          </lane>
        </childLaneSet>
      </lane>
    </laneSet>
    <task id="T1" name="Do it"/>
  </process>
  <bpmndi:BPMNDiagram id="D">
    <bpmndi:BPMNPlane id="PL" bpmnElement="Collab">
      <bpmndi:BPMNShape id="Pool_V_di" bpmnElement="Pool_V" isHorizontal="false">
        <dc:Bounds x="100" y="100" width="300" height="500"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="Lane_Outer_di" bpmnElement="Lane_Outer" isHorizontal="false">
        <dc:Bounds x="100" y="130" width="300" height="480"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="Lane_Inner_di" bpmnElement="Lane_Inner" isHorizontal="false">
        <dc:Bounds x="100" y="160" width="300" height="440"/>
      </bpmndi:BPMNShape>
      <bpmndi:BPMNShape id="T1_di" bpmnElement="T1">
        <dc:Bounds x="200" y="300" width="100" height="80"/>
      </bpmndi:BPMNShape>
    </bpmndi:BPMNPlane>
  </bpmndi:BPMNDiagram>
</definitions>
`
